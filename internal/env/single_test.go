package env

import (
	"errors"
	"testing"

	"pitchcraft.ai/internal/engine"
	"pitchcraft.ai/internal/engine/scrim"
)

func TestSingle_MatchesParallel(t *testing.T) {
	cfg := Config{
		Scenario:       "academy_empty_goal_close",
		Representation: RepSimpleV1,
		EpisodeLength:  30,
	}
	seed := int64(11)
	actions := []engine.Action{
		engine.ActionRight, engine.ActionRight, engine.ActionSprint,
		engine.ActionTopRight, engine.ActionShot, engine.ActionIdle,
	}

	s, err := NewSingle(cfg, scrim.New())
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	sObs, sInfo, err := s.Reset(&seed)
	if err != nil {
		t.Fatalf("single reset: %v", err)
	}

	p := newTestEnv(t, cfg, scrim.New())
	pObs, pInfos := resetEnv(t, p, seed)

	eq := func(a, b []float32) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	if !eq(sObs, pObs["player_0"]) {
		t.Fatalf("reset observations differ")
	}
	if len(sInfo.ActionMask) != len(pInfos["player_0"].ActionMask) {
		t.Fatalf("reset masks differ")
	}

	for i, a := range actions {
		obs, rew, term, trunc, _, err := s.Step(a)
		if err != nil {
			t.Fatalf("single step %d: %v", i, err)
		}
		out, perr := p.Step(map[string]engine.Action{"player_0": a})
		if perr != nil {
			t.Fatalf("parallel step %d: %v", i, perr)
		}
		if !eq(obs, out.Obs["player_0"]) {
			t.Fatalf("step %d: observations diverge", i)
		}
		if rew != out.Rewards["player_0"] {
			t.Fatalf("step %d: rewards diverge: %v vs %v", i, rew, out.Rewards["player_0"])
		}
		if term != out.Terminations["player_0"] || trunc != out.Truncations["player_0"] {
			t.Fatalf("step %d: lifecycle flags diverge", i)
		}
		if term || trunc {
			break
		}
	}
}

func TestSingle_RejectsMultiAgentScenario(t *testing.T) {
	s, err := NewSingle(Config{Scenario: "academy_3_vs_1_with_keeper"}, &stubEngine{})
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	if _, _, err := s.Reset(nil); err == nil {
		t.Fatalf("three-agent roster accepted by the single wrapper")
	}
}

func TestSingle_StepBeforeReset(t *testing.T) {
	s, err := NewSingle(Config{Scenario: "academy_empty_goal_close"}, &stubEngine{})
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}
	if _, _, _, _, _, err := s.Step(engine.ActionIdle); !errors.Is(err, ErrEpisodeDone) {
		t.Fatalf("step before reset: %v", err)
	}
}
