// Headless rollout runner: plays episodes in-process against the built-in
// engine with a random masked policy, writing episode dumps and an episode
// index. Handy for generating traces and for eyeballing scenario balance.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"pitchcraft.ai/internal/engine"
	"pitchcraft.ai/internal/engine/scrim"
	"pitchcraft.ai/internal/env"
	"pitchcraft.ai/internal/persistence/dump"
	"pitchcraft.ai/internal/persistence/tracedb"
)

func main() {
	var (
		scenarioName = flag.String("scenario", "academy_3_vs_1_with_keeper", "scenario name or yaml path")
		episodes     = flag.Int("episodes", 10, "episodes to run")
		episodeLen   = flag.Int("episode-length", 400, "adapter step budget")
		seed         = flag.Int64("seed", 42, "base seed; episode i uses seed+i")
		tracesDir    = flag.String("traces", "traces", "traces directory")
		fullDumps    = flag.Bool("dump-full-episodes", false, "dump every episode")
		goalDumps    = flag.Bool("dump-scores", true, "dump episodes with goals")
		frequency    = flag.Int("dump-frequency", 1, "keep every Nth episode")
		rewards      = flag.String("rewards", "scoring", "reward composition")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[rollout] ", log.LstdFlags|log.Lmicroseconds)

	e, err := env.New(env.Config{
		Scenario:       *scenarioName,
		Representation: env.RepSimpleV1,
		EpisodeLength:  *episodeLen,
		Rewards:        *rewards,
	}, scrim.New())
	if err != nil {
		logger.Fatalf("env: %v", err)
	}

	dumper := dump.NewWriter(dump.Options{
		Dir:          *tracesDir,
		FullEpisodes: *fullDumps,
		GoalDumps:    *goalDumps,
		Frequency:    *frequency,
	})
	defer dumper.Close()

	idx, err := tracedb.Open(filepath.Join(*tracesDir, "episodes.db"))
	if err != nil {
		logger.Fatalf("tracedb: %v", err)
	}
	defer idx.Close()

	e.SetTraceLogger(env.MultiTrace(dumper, idx))

	// The policy stream is separate from the episode streams on purpose:
	// the env owns per-episode randomness, the policy owns its own.
	policy := rand.New(rand.NewSource(*seed * 31))

	for ep := 0; ep < *episodes; ep++ {
		s := *seed + int64(ep)
		_, infos, err := e.Reset(&s)
		if err != nil {
			logger.Fatalf("reset: %v", err)
		}

		steps, total := 0, 0.0
		for len(e.Agents()) > 0 {
			actions := map[string]engine.Action{}
			for _, h := range e.Agents() {
				actions[h] = pickLegal(policy, infos[h].ActionMask)
			}
			out, err := e.Step(actions)
			if err != nil {
				logger.Fatalf("step: %v", err)
			}
			infos = out.Infos
			steps++
			for _, r := range out.Rewards {
				total += r
			}
		}
		f := e.Frame()
		logger.Printf("episode=%d seed=%d steps=%d score=%d:%d reward_sum=%.2f",
			ep, s, steps, f.ScoreLeft, f.ScoreRight, total)
	}

	rows, err := idx.Recent(5)
	if err == nil {
		for _, r := range rows {
			logger.Printf("indexed %s scenario=%s steps=%d score=%d:%d", r.ID, r.Scenario, r.Steps, r.ScoreLeft, r.ScoreRight)
		}
	}
}

func pickLegal(rng *rand.Rand, mask []bool) engine.Action {
	if len(mask) == 0 {
		return engine.Action(rng.Intn(engine.ActionCount))
	}
	legal := make([]engine.Action, 0, len(mask))
	for i, ok := range mask {
		if ok {
			legal = append(legal, engine.Action(i))
		}
	}
	if len(legal) == 0 {
		return engine.ActionIdle
	}
	return legal[rng.Intn(len(legal))]
}
