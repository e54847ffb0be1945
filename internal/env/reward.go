package env

import (
	"math"

	"pitchcraft.ai/internal/engine"
)

const (
	numCheckpoints   = 10
	checkpointReward = 0.1
)

// checkpointTracker adds the "checkpoints" shaping reward: 0.1 for each of
// 10 concentric regions around the opponent goal the ball is advanced into
// while the left team holds it, each paid at most once per episode. Scoring
// pays out whatever regions remain, so a goal is always worth the same
// total. The ball is shared, so one tracker serves every controlled agent.
type checkpointTracker struct {
	collected int
}

func (c *checkpointTracker) reset() { c.collected = 0 }

func (c *checkpointTracker) bonus(f *engine.Frame, scored bool) float64 {
	if scored {
		r := float64(numCheckpoints-c.collected) * checkpointReward
		c.collected = numCheckpoints
		return r
	}
	if f.Ball.Owner != engine.OwnerLeft {
		return 0
	}
	dx := f.Ball.Pos.X - 1.0
	dy := f.Ball.Pos.Y
	d := math.Sqrt(dx*dx + dy*dy)

	r := 0.0
	for c.collected < numCheckpoints {
		threshold := 1.98 - 0.198*float64(c.collected)
		if d > threshold {
			break
		}
		r += checkpointReward
		c.collected++
	}
	return r
}
