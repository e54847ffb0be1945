package env

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
)

// Lifecycle tracks one episode's step budget and owns its random stream.
// One instance belongs to exactly one environment; streams are never shared
// across environments, so differently seeded instances cannot interfere.
//
// States: unstarted -> running -> terminated and/or truncated. Both end
// flags may be set on the same tick; they stay distinct because truncation
// only means the time budget expired.
type Lifecycle struct {
	maxSteps int

	step       int
	running    bool
	terminated bool
	truncated  bool

	seed int64
	rng  *mrand.Rand
}

func NewLifecycle(maxSteps int) *Lifecycle {
	return &Lifecycle{maxSteps: maxSteps}
}

// Reset starts a new episode. A non-nil seed yields a reproducible stream:
// resetting twice with the same seed replays the identical random sequence.
// A nil seed draws one from process entropy.
func (l *Lifecycle) Reset(seed *int64) {
	s := int64(0)
	if seed != nil {
		s = *seed
	} else {
		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			s = int64(binary.LittleEndian.Uint64(b[:]))
		}
	}
	l.seed = s
	l.rng = mrand.New(mrand.NewSource(s))
	l.step = 0
	l.running = true
	l.terminated = false
	l.truncated = false
}

// Rand exposes the episode stream. Everything stochastic downstream of a
// reset (engine opponents included) must draw from it.
func (l *Lifecycle) Rand() *mrand.Rand { return l.rng }

func (l *Lifecycle) Seed() int64      { return l.seed }
func (l *Lifecycle) Step() int        { return l.step }
func (l *Lifecycle) MaxSteps() int    { return l.maxSteps }
func (l *Lifecycle) Terminated() bool { return l.terminated }
func (l *Lifecycle) Truncated() bool  { return l.truncated }
func (l *Lifecycle) Done() bool       { return l.terminated || l.truncated }

// Advance counts one step. engineDone is the engine's own episode-end
// signal and maps to terminated; hitting the step budget maps to truncated.
// The episode runs exactly maxSteps steps — truncation fires when the
// counter reaches maxSteps, not one step later.
func (l *Lifecycle) Advance(engineDone bool) error {
	if !l.running {
		return fmt.Errorf("advance before reset: %w", ErrEpisodeDone)
	}
	if l.Done() {
		return ErrEpisodeDone
	}
	l.step++
	if engineDone {
		l.terminated = true
	}
	if l.maxSteps > 0 && l.step >= l.maxSteps {
		l.truncated = true
	}
	return nil
}
