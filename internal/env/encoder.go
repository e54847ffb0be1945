package env

import (
	"fmt"

	"pitchcraft.ai/internal/engine"
)

// Encoder turns raw frames into fixed-shape float32 vectors. It is pure:
// identical input frames produce bit-identical output, and the instance
// holds no mutable state. The concatenation order below is the wire
// contract shared with trained policies — reordering is a breaking change.
type Encoder struct {
	cfg EncoderConfig
}

func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	if cfg.LeftCount <= 0 || cfg.RightCount < 0 {
		return nil, fmt.Errorf("encoder: bad roster sizes n1=%d n2=%d", cfg.LeftCount, cfg.RightCount)
	}
	if cfg.Controlled <= 0 || cfg.Controlled > cfg.LeftCount {
		return nil, fmt.Errorf("encoder: bad controlled count n0=%d for n1=%d", cfg.Controlled, cfg.LeftCount)
	}
	return &Encoder{cfg: cfg}, nil
}

func (e *Encoder) Config() EncoderConfig { return e.cfg }

func (e *Encoder) checkFrame(f *engine.Frame) error {
	if len(f.Left) != e.cfg.LeftCount || len(f.Right) != e.cfg.RightCount {
		return fmt.Errorf("encoder: frame roster %dx%d does not match config %dx%d",
			len(f.Left), len(f.Right), e.cfg.LeftCount, e.cfg.RightCount)
	}
	return nil
}

// EncodeAgent builds the egocentric simplev1 vector for one left-team
// subject. subject must be a valid left roster index.
//
// Layout (length 7*n1 + 6*n2 + 18):
//
//	subject pos (2), subject dir (2), sprint/dribble flags (2),
//	deltas to other left (2*(n1-1)), deltas to right (2*n2),
//	delta to ball (2),
//	other left pos (2*(n1-1)), other left dir (2*(n1-1)),
//	right pos (2*n2), right dir (2*n2),
//	ball pos (3), ball dir (3),
//	ownership one-hot (3), game-mode one-hot (7), subject one-hot (n1)
func (e *Encoder) EncodeAgent(f *engine.Frame, subject int) ([]float32, error) {
	if err := e.checkFrame(f); err != nil {
		return nil, err
	}
	if subject < 0 || subject >= len(f.Left) {
		return nil, fmt.Errorf("%w: subject %d of %d left players", ErrInvalidAgentIndex, subject, len(f.Left))
	}

	out := make([]float32, 0, e.cfg.AgentDim())
	me := f.Left[subject]

	out = append(out, float32(me.Pos.X), float32(me.Pos.Y))
	out = append(out, float32(me.Dir.X), float32(me.Dir.Y))
	out = append(out, b2f(me.Sprinting), b2f(me.Dribbling))

	for i, p := range f.Left {
		if i == subject {
			continue
		}
		out = append(out, float32(p.Pos.X-me.Pos.X), float32(p.Pos.Y-me.Pos.Y))
	}
	for _, p := range f.Right {
		out = append(out, float32(p.Pos.X-me.Pos.X), float32(p.Pos.Y-me.Pos.Y))
	}
	out = append(out, float32(f.Ball.Pos.X-me.Pos.X), float32(f.Ball.Pos.Y-me.Pos.Y))

	for i, p := range f.Left {
		if i == subject {
			continue
		}
		out = append(out, float32(p.Pos.X), float32(p.Pos.Y))
	}
	for i, p := range f.Left {
		if i == subject {
			continue
		}
		out = append(out, float32(p.Dir.X), float32(p.Dir.Y))
	}
	for _, p := range f.Right {
		out = append(out, float32(p.Pos.X), float32(p.Pos.Y))
	}
	for _, p := range f.Right {
		out = append(out, float32(p.Dir.X), float32(p.Dir.Y))
	}

	out = append(out, float32(f.Ball.Pos.X), float32(f.Ball.Pos.Y), float32(f.Ball.Pos.Z))
	out = append(out, float32(f.Ball.Dir.X), float32(f.Ball.Dir.Y), float32(f.Ball.Dir.Z))

	out = appendOwnership(out, f.Ball.Owner)
	out = appendOneHot(out, int(f.Mode), engine.ModeCount)
	out = appendOneHot(out, subject, e.cfg.LeftCount)

	return out, nil
}

// EncodeState builds the shared team-relative state vector. active lists the
// controlled left roster indices in agent order; every agent receives the
// same vector in a tick, so callers must treat the result as read-only.
//
// Layout (length 4*(n1+n2) + n0*n1 + 16):
//
//	left pos (2*n1), left dir (2*n1), right pos (2*n2), right dir (2*n2),
//	ball pos (3), ball dir (3), ownership one-hot (3),
//	game-mode one-hot (7), one n1-sized one-hot per controlled index (n0*n1)
func (e *Encoder) EncodeState(f *engine.Frame, active []int) ([]float32, error) {
	if err := e.checkFrame(f); err != nil {
		return nil, err
	}
	if len(active) != e.cfg.Controlled {
		return nil, fmt.Errorf("encoder: %d active ids for configured n0=%d", len(active), e.cfg.Controlled)
	}
	for _, idx := range active {
		if idx < 0 || idx >= e.cfg.LeftCount {
			return nil, fmt.Errorf("%w: active id %d of %d left players", ErrInvalidAgentIndex, idx, e.cfg.LeftCount)
		}
	}

	out := make([]float32, 0, e.cfg.StateDim())
	for _, p := range f.Left {
		out = append(out, float32(p.Pos.X), float32(p.Pos.Y))
	}
	for _, p := range f.Left {
		out = append(out, float32(p.Dir.X), float32(p.Dir.Y))
	}
	for _, p := range f.Right {
		out = append(out, float32(p.Pos.X), float32(p.Pos.Y))
	}
	for _, p := range f.Right {
		out = append(out, float32(p.Dir.X), float32(p.Dir.Y))
	}

	out = append(out, float32(f.Ball.Pos.X), float32(f.Ball.Pos.Y), float32(f.Ball.Pos.Z))
	out = append(out, float32(f.Ball.Dir.X), float32(f.Ball.Dir.Y), float32(f.Ball.Dir.Z))

	out = appendOwnership(out, f.Ball.Owner)
	out = appendOneHot(out, int(f.Mode), engine.ModeCount)
	for _, idx := range active {
		out = appendOneHot(out, idx, e.cfg.LeftCount)
	}

	return out, nil
}

func appendOwnership(out []float32, o engine.Ownership) []float32 {
	switch o {
	case engine.OwnerLeft:
		return append(out, 0, 1, 0)
	case engine.OwnerRight:
		return append(out, 0, 0, 1)
	}
	return append(out, 1, 0, 0)
}

func appendOneHot(out []float32, hot, size int) []float32 {
	for i := 0; i < size; i++ {
		if i == hot {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
