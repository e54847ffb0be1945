package engine

import (
	"math/rand"

	"pitchcraft.ai/internal/scenario"
)

// Engine is the synchronous simulator behind the adapter. One engine handle
// is exclusively owned by one environment instance; calls never overlap.
//
// Reset starts a new episode from the given scenario spec. All stochasticity
// the engine consumes afterwards must be drawn from rng, which the episode
// lifecycle controller owns and seeds — engines must not touch any global
// random source.
//
// Step advances exactly one tick. actions carries one entry per active
// (controlled) roster slot, in Frame.Active order. The returned rewards
// slice has either one entry per active slot or a single shared scalar;
// done reports engine-side episode end (goal, scenario completion), which
// is independent of the adapter's step budget.
type Engine interface {
	Reset(spec scenario.Spec, rng *rand.Rand) (*Frame, error)
	Step(actions []Action) (*Frame, []float64, bool, error)
}
