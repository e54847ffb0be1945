package env

import "pitchcraft.ai/internal/engine"

// TraceLogger receives one entry per episode start and per step. Optional;
// implemented in internal/persistence. Dumps are a best-effort side channel:
// the env drops entries on write errors instead of failing the episode.
type TraceLogger interface {
	WriteEpisodeStart(e EpisodeStartTrace) error
	WriteStep(e StepTrace) error
}

// MultiTrace fans trace entries out to several sinks (e.g. dump writer plus
// episode index). The first error wins; remaining sinks still receive the
// entry.
func MultiTrace(sinks ...TraceLogger) TraceLogger { return multiTrace(sinks) }

type multiTrace []TraceLogger

func (m multiTrace) WriteEpisodeStart(e EpisodeStartTrace) error {
	var first error
	for _, s := range m {
		if err := s.WriteEpisodeStart(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiTrace) WriteStep(e StepTrace) error {
	var first error
	for _, s := range m {
		if err := s.WriteStep(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type EpisodeStartTrace struct {
	EpisodeID string `json:"episode_id"`
	Scenario  string `json:"scenario"`
	Seed      int64  `json:"seed"`
	MaxSteps  int    `json:"max_steps"`
	Agents    int    `json:"agents"`
}

type StepTrace struct {
	EpisodeID  string             `json:"episode_id"`
	Step       int                `json:"step"`
	Actions    map[string]int     `json:"actions"`
	Rewards    map[string]float64 `json:"rewards"`
	ScoreLeft  int                `json:"score_left"`
	ScoreRight int                `json:"score_right"`
	Mode       string             `json:"mode"`
	Terminated bool               `json:"terminated"`
	Truncated  bool               `json:"truncated"`
}

func stepTrace(id string, step int, actions map[string]engine.Action, rewards map[string]float64, f *engine.Frame, term, trunc bool) StepTrace {
	acts := make(map[string]int, len(actions))
	for h, a := range actions {
		acts[h] = int(a)
	}
	return StepTrace{
		EpisodeID:  id,
		Step:       step,
		Actions:    acts,
		Rewards:    rewards,
		ScoreLeft:  f.ScoreLeft,
		ScoreRight: f.ScoreRight,
		Mode:       f.Mode.String(),
		Terminated: term,
		Truncated:  trunc,
	}
}
