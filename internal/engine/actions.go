package engine

// Action is one entry of the fixed discrete action set. The numbering is the
// wire contract shared with trained policies; never reorder.
type Action int

const (
	ActionIdle Action = iota
	ActionLeft
	ActionTopLeft
	ActionTop
	ActionTopRight
	ActionRight
	ActionBottomRight
	ActionBottom
	ActionBottomLeft
	ActionLongPass
	ActionHighPass
	ActionShortPass
	ActionShot
	ActionSprint
	ActionReleaseDirection
	ActionReleaseSprint
	ActionSliding
	ActionDribble
	ActionReleaseDribble

	actionCount // sentinel, keep last
)

// ActionCount is the size of the discrete action set.
const ActionCount = int(actionCount)

var actionNames = [...]string{
	"idle", "left", "top_left", "top", "top_right", "right",
	"bottom_right", "bottom", "bottom_left",
	"long_pass", "high_pass", "short_pass", "shot",
	"sprint", "release_direction", "release_sprint",
	"sliding", "dribble", "release_dribble",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "invalid"
	}
	return actionNames[a]
}

// Valid reports whether a is inside the action set.
func (a Action) Valid() bool { return a >= 0 && a < actionCount }

// IsDirection reports whether a is one of the eight movement commands.
func (a Action) IsDirection() bool { return a >= ActionLeft && a <= ActionBottomLeft }

// IsKick reports whether a releases the ball (passes and shot).
func (a Action) IsKick() bool { return a >= ActionLongPass && a <= ActionShot }

// Direction returns the unit-ish (x, y) movement vector for a direction
// action. Positive y points toward the bottom of the pitch, matching the
// engine's screen-space convention.
func (a Action) Direction() (float64, float64) {
	switch a {
	case ActionLeft:
		return -1, 0
	case ActionTopLeft:
		return -0.7071, -0.7071
	case ActionTop:
		return 0, -1
	case ActionTopRight:
		return 0.7071, -0.7071
	case ActionRight:
		return 1, 0
	case ActionBottomRight:
		return 0.7071, 0.7071
	case ActionBottom:
		return 0, 1
	case ActionBottomLeft:
		return -0.7071, 0.7071
	}
	return 0, 0
}
