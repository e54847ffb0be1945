package env

import (
	"fmt"

	"pitchcraft.ai/internal/engine"
)

// ComputeMask reports, per discrete action id, whether the action is
// currently meaningful for the given left-team roster index. true means
// legal. The rules depend only on the current frame (game mode, ball
// ownership and the subject's sticky flags) — never on history — so the
// mask must be recomputed from the fresh frame every tick.
func ComputeMask(f *engine.Frame, rosterIdx int) ([]bool, error) {
	active := false
	for _, idx := range f.Active {
		if idx == rosterIdx {
			active = true
			break
		}
	}
	if !active {
		return nil, fmt.Errorf("%w: roster index %d is not active", ErrInvalidAgentIndex, rosterIdx)
	}

	me := f.Left[rosterIdx]
	owns := f.Ball.Owner == engine.OwnerLeft && f.Ball.OwnerIndex == rosterIdx
	teamOwns := f.Ball.Owner == engine.OwnerLeft
	restart := f.Mode != engine.ModeNormal

	mask := make([]bool, engine.ActionCount)
	for a := 0; a < engine.ActionCount; a++ {
		mask[a] = true
	}

	// Sticky toggles are no-ops while already in that state.
	mask[engine.ActionSprint] = !me.Sprinting
	mask[engine.ActionReleaseSprint] = me.Sprinting
	mask[engine.ActionReleaseDribble] = me.Dribbling
	mask[engine.ActionDribble] = owns && !me.Dribbling

	// Kicks need the ball, except at a restart where somebody has to put
	// the loose ball back into play.
	kick := owns || (restart && f.Ball.Owner == engine.OwnerNone)
	mask[engine.ActionLongPass] = kick
	mask[engine.ActionHighPass] = kick
	mask[engine.ActionShortPass] = kick
	mask[engine.ActionShot] = kick

	// Tackling your own team, or sliding during a dead ball, is pointless.
	mask[engine.ActionSliding] = !teamOwns && !restart

	return mask, nil
}
