package engine

// GameMode is the engine's restart state. The enumeration size is part of
// the observation wire contract (one-hot of 7).
type GameMode int

const (
	ModeNormal GameMode = iota
	ModeKickOff
	ModeGoalKick
	ModeFreeKick
	ModeCorner
	ModeThrowIn
	ModePenalty

	modeCount
)

// ModeCount is the size of the game-mode enumeration.
const ModeCount = int(modeCount)

var modeNames = [...]string{
	"normal", "kick_off", "goal_kick", "free_kick", "corner", "throw_in", "penalty",
}

func (m GameMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "invalid"
	}
	return modeNames[m]
}

// Ownership says which side controls the ball.
type Ownership int

const (
	OwnerNone Ownership = iota
	OwnerLeft
	OwnerRight
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Player is one roster entry. Identity is the array position within an
// episode; the slices in Frame never reorder between reset and episode end.
// The sticky flags are only tracked for left-team players; they stay false
// on the right team.
type Player struct {
	Pos       Vec2 `json:"pos"`
	Dir       Vec2 `json:"dir"`
	Sprinting bool `json:"sprinting"`
	Dribbling bool `json:"dribbling"`
}

type Ball struct {
	Pos   Vec3      `json:"pos"`
	Dir   Vec3      `json:"dir"`
	Owner Ownership `json:"owner"`
	// OwnerIndex is the roster index of the owning player on the owning
	// side, -1 when Owner is OwnerNone.
	OwnerIndex int `json:"owner_index"`
}

// Frame is one raw per-tick snapshot pulled from the engine. It is a value
// snapshot: the engine must not mutate a frame after returning it.
type Frame struct {
	Left  []Player `json:"left"`
	Right []Player `json:"right"`
	Ball  Ball     `json:"ball"`
	Mode  GameMode `json:"mode"`

	// Active lists the left-team roster indices currently controlled, in
	// agent order. len(Active) <= len(Left) and the mapping is stable
	// within an episode.
	Active []int `json:"active"`

	ScoreLeft  int `json:"score_left"`
	ScoreRight int `json:"score_right"`
}

// Clone deep-copies a frame. Encoders read frames without copying, so the
// engine clones before mutating its internal state.
func (f *Frame) Clone() *Frame {
	out := *f
	out.Left = append([]Player(nil), f.Left...)
	out.Right = append([]Player(nil), f.Right...)
	out.Active = append([]int(nil), f.Active...)
	return &out
}
