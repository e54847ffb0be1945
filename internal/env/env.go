// Package env adapts a synchronous football engine to the standard
// reinforcement-learning environment contracts: a parallel multi-agent API
// where every active agent acts each tick, and a single-agent wrapper over
// the one-agent case.
package env

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"pitchcraft.ai/internal/engine"
	"pitchcraft.ai/internal/scenario"
)

// Info is the per-agent side channel next to the observation.
type Info struct {
	// ActionMask marks legal actions; nil when masking is disabled.
	ActionMask []bool `json:"action_mask,omitempty"`
	// State is the shared team-relative vector. All agents of a tick hold
	// the same backing slice; treat it as read-only.
	State []float32 `json:"state,omitempty"`
	// Frame carries the raw snapshot under the raw representation.
	Frame *engine.Frame `json:"frame,omitempty"`

	ScoreLeft  int `json:"score_left"`
	ScoreRight int `json:"score_right"`
}

// StepOutcome is the parallel contract's step payload. Every map holds
// exactly the handles that were active when Step was called.
type StepOutcome struct {
	Obs          map[string][]float32
	Rewards      map[string]float64
	Terminations map[string]bool
	Truncations  map[string]bool
	Infos        map[string]Info
}

// ParallelEnv multiplexes several logical agents over one engine tick.
// It is single-threaded: one goroutine owns the instance, the engine handle
// and the episode random stream. Concurrent episodes need separate
// instances.
type ParallelEnv struct {
	cfg     Config
	eng     engine.Engine
	builder scenario.Builder

	life *Lifecycle
	enc  *Encoder

	episode   int
	episodeID string

	// handles[i] maps to roster index rosterOf[handles[i]]; fixed from
	// reset until episode end, never reassigned mid-episode.
	handles  []string
	rosterOf map[string]int

	frame *engine.Frame
	chk   *checkpointTracker

	trace TraceLogger
}

// New builds an environment over an exclusively owned engine handle. The
// scenario, representation and roster configuration are fixed here; the
// encoder is recreated at reset only because the scenario dictates roster
// sizes, never resized in place.
func New(cfg Config, eng engine.Engine) (*ParallelEnv, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, fmt.Errorf("env: nil engine")
	}
	builder, err := scenario.Resolve(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	return &ParallelEnv{
		cfg:     cfg,
		eng:     eng,
		builder: builder,
		life:    NewLifecycle(cfg.EpisodeLength),
		chk:     &checkpointTracker{},
	}, nil
}

// SetTraceLogger attaches an optional episode trace sink. May only be called
// between episodes.
func (p *ParallelEnv) SetTraceLogger(l TraceLogger) { p.trace = l }

func (p *ParallelEnv) Config() Config { return p.cfg }

// Agents returns the currently active handle set, in agent order. It is
// empty before the first reset and after the episode ends: dead agents are
// never offered another action.
func (p *ParallelEnv) Agents() []string {
	if p.life.Done() {
		return nil
	}
	return append([]string(nil), p.handles...)
}

// EpisodeID identifies the running episode in traces and the index DB.
func (p *ParallelEnv) EpisodeID() string { return p.episodeID }

// StepCount is the number of steps taken in the current episode.
func (p *ParallelEnv) StepCount() int { return p.life.Step() }

// Reset starts a new episode: reseeds the lifecycle stream, rebuilds the
// agent roster from configuration, and performs one engine reset. The
// returned maps are shaped exactly like Step's.
func (p *ParallelEnv) Reset(seed *int64) (map[string][]float32, map[string]Info, error) {
	spec := p.builder(p.episode)
	p.episode++

	controllable := spec.ControllableLeft()
	n0 := p.cfg.LeftControlled
	if n0 == 0 {
		n0 = controllable
	}
	if n0 > controllable {
		return nil, nil, fmt.Errorf("env: scenario %s has %d controllable players, config wants %d",
			spec.Name, controllable, n0)
	}
	// Hand back the surplus controllable slots to the engine's built-in
	// AI. The spawn list is copied first so a builder that reuses its
	// slice is not mutated across resets.
	spec.Left = append([]scenario.Spawn(nil), spec.Left...)
	kept := 0
	for i := range spec.Left {
		if !spec.Left[i].Controllable {
			continue
		}
		if kept >= n0 {
			spec.Left[i].Controllable = false
		}
		kept++
	}

	p.life.Reset(seed)

	frame, err := p.eng.Reset(spec, p.life.Rand())
	if err != nil {
		return nil, nil, engineErr("reset", err)
	}
	p.frame = frame
	p.chk.reset()
	p.episodeID = uuid.NewString()

	enc, err := NewEncoder(EncoderConfig{
		LeftCount:  len(frame.Left),
		RightCount: len(frame.Right),
		Controlled: len(frame.Active),
	})
	if err != nil {
		return nil, nil, err
	}
	p.enc = enc

	p.handles = make([]string, len(frame.Active))
	p.rosterOf = make(map[string]int, len(frame.Active))
	for i, idx := range frame.Active {
		h := fmt.Sprintf("player_%d", i)
		p.handles[i] = h
		p.rosterOf[h] = idx
	}

	if p.trace != nil {
		_ = p.trace.WriteEpisodeStart(EpisodeStartTrace{
			EpisodeID: p.episodeID,
			Scenario:  spec.Name,
			Seed:      p.life.Seed(),
			MaxSteps:  p.life.MaxSteps(),
			Agents:    len(p.handles),
		})
	}

	obs, infos, err := p.observe(frame)
	if err != nil {
		return nil, nil, err
	}
	return obs, infos, nil
}

// Step fans the per-agent action map into one engine tick and fans the
// resulting frame back out per agent. The action keys must equal the active
// handle set exactly.
func (p *ParallelEnv) Step(actions map[string]engine.Action) (*StepOutcome, error) {
	if p.frame == nil {
		return nil, fmt.Errorf("env: step before reset: %w", ErrEpisodeDone)
	}
	if p.life.Done() {
		return nil, ErrEpisodeDone
	}
	if err := p.checkActionSet(actions); err != nil {
		return nil, err
	}

	ordered := make([]engine.Action, len(p.handles))
	for i, h := range p.handles {
		ordered[i] = actions[h]
	}

	frame, rewards, engineDone, err := p.eng.Step(ordered)
	if err != nil {
		return nil, engineErr("step", err)
	}
	scored := frame.ScoreLeft > p.frame.ScoreLeft
	p.frame = frame

	if err := p.life.Advance(engineDone); err != nil {
		return nil, err
	}
	term, trunc := p.life.Terminated(), p.life.Truncated()

	obs, infos, err := p.observe(frame)
	if err != nil {
		return nil, err
	}

	rew := p.splitRewards(rewards)
	if p.cfg.Rewards == "scoring,checkpoints" {
		bonus := p.chk.bonus(frame, scored)
		if bonus != 0 {
			for _, h := range p.handles {
				rew[h] += bonus
			}
		}
	}

	out := &StepOutcome{
		Obs:          obs,
		Rewards:      rew,
		Terminations: make(map[string]bool, len(p.handles)),
		Truncations:  make(map[string]bool, len(p.handles)),
		Infos:        infos,
	}
	// Episode lifecycle is global: every agent carries identical flags.
	for _, h := range p.handles {
		out.Terminations[h] = term
		out.Truncations[h] = trunc
	}

	if p.trace != nil {
		_ = p.trace.WriteStep(stepTrace(p.episodeID, p.life.Step(), actions, rew, frame, term, trunc))
	}
	return out, nil
}

// State returns the shared team-relative state vector for the current tick.
func (p *ParallelEnv) State() ([]float32, error) {
	if p.frame == nil {
		return nil, fmt.Errorf("env: state before reset: %w", ErrEpisodeDone)
	}
	return p.enc.EncodeState(p.frame, p.frame.Active)
}

// Frame exposes the last raw snapshot (read-only).
func (p *ParallelEnv) Frame() *engine.Frame { return p.frame }

func (p *ParallelEnv) checkActionSet(actions map[string]engine.Action) error {
	var missing, extra []string
	for _, h := range p.handles {
		if _, ok := actions[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(actions) != len(p.handles) || len(missing) > 0 {
		known := make(map[string]bool, len(p.handles))
		for _, h := range p.handles {
			known[h] = true
		}
		for h := range actions {
			if !known[h] {
				extra = append(extra, h)
			}
		}
		sort.Strings(missing)
		sort.Strings(extra)
		return fmt.Errorf("%w: missing [%s] extra [%s]",
			ErrAgentSetMismatch, strings.Join(missing, " "), strings.Join(extra, " "))
	}
	for h, a := range actions {
		if !a.Valid() {
			return fmt.Errorf("env: %s: invalid action id %d", h, int(a))
		}
	}
	return nil
}

// splitRewards maps the engine's reward signal onto handles. A single
// scalar is broadcast unchanged to every controlled agent; a per-slot slice
// is split by position.
func (p *ParallelEnv) splitRewards(rewards []float64) map[string]float64 {
	out := make(map[string]float64, len(p.handles))
	for i, h := range p.handles {
		switch {
		case len(rewards) == 1:
			out[h] = rewards[0]
		case i < len(rewards):
			out[h] = rewards[i]
		default:
			out[h] = 0
		}
	}
	return out
}

func (p *ParallelEnv) observe(f *engine.Frame) (map[string][]float32, map[string]Info, error) {
	obs := make(map[string][]float32, len(p.handles))
	infos := make(map[string]Info, len(p.handles))

	var state []float32
	if p.cfg.Representation == RepSimpleV1 {
		s, err := p.enc.EncodeState(f, f.Active)
		if err != nil {
			return nil, nil, err
		}
		state = s
	}

	for _, h := range p.handles {
		idx := p.rosterOf[h]
		info := Info{ScoreLeft: f.ScoreLeft, ScoreRight: f.ScoreRight}

		switch p.cfg.Representation {
		case RepSimpleV1:
			v, err := p.enc.EncodeAgent(f, idx)
			if err != nil {
				return nil, nil, err
			}
			obs[h] = v
			info.State = state
		case RepRaw:
			obs[h] = nil
			info.Frame = f
		}

		if !p.cfg.DisableActionMask {
			m, err := ComputeMask(f, idx)
			if err != nil {
				return nil, nil, err
			}
			info.ActionMask = m
		}
		infos[h] = info
	}
	return obs, infos, nil
}
