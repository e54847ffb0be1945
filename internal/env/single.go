package env

import (
	"fmt"

	"pitchcraft.ai/internal/engine"
)

// SingleEnv is the single-agent contract over the degenerate one-agent
// case: step takes a flat action and returns a flat tuple instead of maps.
// Observations are numerically identical to driving the parallel env with a
// one-entry action map.
type SingleEnv struct {
	p      *ParallelEnv
	handle string
}

// NewSingle wraps a one-agent environment. The configuration must resolve
// to exactly one controlled player.
func NewSingle(cfg Config, eng engine.Engine) (*SingleEnv, error) {
	p, err := New(cfg, eng)
	if err != nil {
		return nil, err
	}
	return &SingleEnv{p: p}, nil
}

// Wrap exposes an existing parallel env through the single-agent contract.
func Wrap(p *ParallelEnv) *SingleEnv { return &SingleEnv{p: p} }

// Parallel returns the underlying multi-agent environment.
func (s *SingleEnv) Parallel() *ParallelEnv { return s.p }

func (s *SingleEnv) Reset(seed *int64) ([]float32, Info, error) {
	obs, infos, err := s.p.Reset(seed)
	if err != nil {
		return nil, Info{}, err
	}
	if len(s.p.handles) != 1 {
		return nil, Info{}, fmt.Errorf("env: single-agent wrapper over %d agents", len(s.p.handles))
	}
	s.handle = s.p.handles[0]
	return obs[s.handle], infos[s.handle], nil
}

func (s *SingleEnv) Step(a engine.Action) (obs []float32, reward float64, terminated, truncated bool, info Info, err error) {
	if s.handle == "" {
		return nil, 0, false, false, Info{}, fmt.Errorf("env: step before reset: %w", ErrEpisodeDone)
	}
	out, err := s.p.Step(map[string]engine.Action{s.handle: a})
	if err != nil {
		return nil, 0, false, false, Info{}, err
	}
	h := s.handle
	return out.Obs[h], out.Rewards[h], out.Terminations[h], out.Truncations[h], out.Infos[h], nil
}
