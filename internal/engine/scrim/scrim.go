// Package scrim is a small deterministic football engine used for local
// training loops and tests. It is deliberately physics-lite: straight-line
// movement, radius-based possession, no collisions. It exists so the adapter
// has an in-process Engine; fidelity belongs to the external simulator.
package scrim

import (
	"fmt"
	"math"
	"math/rand"

	"pitchcraft.ai/internal/engine"
	"pitchcraft.ai/internal/scenario"
)

const (
	pitchHalfWidth  = 1.0
	pitchHalfHeight = 0.42
	goalHalfWidth   = 0.044

	baseSpeed     = 0.010
	sprintFactor  = 1.5
	possessRadius = 0.03
	ballFriction  = 0.92

	shotSpeed = 0.06
	passSpeed = 0.04
)

type playerState struct {
	engine.Player
	// moveX/moveY hold the sticky movement direction set by the last
	// direction action; cleared by release_direction.
	moveX, moveY float64
	role         string
}

// Engine implements engine.Engine. All state is owned by the calling
// goroutine; the rand stream is handed in at Reset and never replaced.
type Engine struct {
	spec scenario.Spec
	rng  *rand.Rand

	tick  int
	left  []playerState
	right []playerState
	ball  engine.Ball

	mode       engine.GameMode
	active     []int
	scoreLeft  int
	scoreRight int
	done       bool
}

func New() *Engine { return &Engine{} }

func (e *Engine) Reset(spec scenario.Spec, rng *rand.Rand) (*engine.Frame, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("scrim: nil rand stream")
	}
	e.spec = spec
	e.rng = rng
	e.tick = 0
	e.done = false
	e.scoreLeft, e.scoreRight = 0, 0
	e.mode = engine.ModeKickOff

	e.left = spawnTeam(spec.Left, false)
	e.right = spawnTeam(spec.Right, true)

	e.active = e.active[:0]
	for i, p := range spec.Left {
		if p.Controllable {
			e.active = append(e.active, i)
		}
	}

	e.ball = engine.Ball{
		Pos:        engine.Vec3{X: spec.BallX, Y: spec.BallY},
		Owner:      engine.OwnerNone,
		OwnerIndex: -1,
	}
	e.claimBall()
	return e.frame(), nil
}

// spawnTeam places players. Scenario coordinates are team-relative (own
// goal at x=-1), so the right team is mirrored into the absolute pitch
// frame.
func spawnTeam(spawns []scenario.Spawn, mirror bool) []playerState {
	out := make([]playerState, len(spawns))
	for i, s := range spawns {
		x, y := s.X, s.Y
		if mirror {
			x, y = -x, -y
		}
		out[i] = playerState{
			Player: engine.Player{Pos: engine.Vec2{X: x, Y: y}},
			role:   s.Role,
		}
	}
	return out
}

func (e *Engine) Step(actions []engine.Action) (*engine.Frame, []float64, bool, error) {
	if e.rng == nil {
		return nil, nil, false, fmt.Errorf("scrim: Step before Reset")
	}
	if e.done {
		return nil, nil, false, fmt.Errorf("scrim: Step after episode end")
	}
	if len(actions) != len(e.active) {
		return nil, nil, false, fmt.Errorf("scrim: got %d actions for %d active players", len(actions), len(e.active))
	}
	for _, a := range actions {
		if !a.Valid() {
			return nil, nil, false, fmt.Errorf("scrim: invalid action id %d", int(a))
		}
	}

	for slot, idx := range e.active {
		e.applyAction(idx, actions[slot])
	}
	e.moveControlled()
	e.moveScripted()
	e.moveBall()
	e.claimBall()

	reward := 0.0
	ownerBefore := e.ball.Owner

	if gx, ok := e.goalCrossed(); ok {
		if gx > 0 {
			e.scoreLeft++
			reward = 1.0
		} else {
			e.scoreRight++
			reward = -1.0
		}
		e.restart(engine.ModeKickOff, 0, 0)
		if e.spec.EndOnScore {
			e.done = true
		}
	} else if out, mode := e.outOfPlay(); out {
		e.restart(mode, clamp(e.ball.Pos.X, -0.99, 0.99), clamp(e.ball.Pos.Y, -0.41, 0.41))
		if e.spec.EndOnOutOfPlay {
			e.done = true
		}
	} else if e.mode != engine.ModeNormal {
		// Restart modes resolve after one tick of play.
		e.mode = engine.ModeNormal
	}

	if e.spec.EndOnPossessionChange && ownerBefore != engine.OwnerRight && e.ball.Owner == engine.OwnerRight {
		e.done = true
	}

	e.tick++
	if e.spec.GameDuration > 0 && e.tick >= e.spec.GameDuration {
		e.done = true
	}

	// One shared scalar; the adapter broadcasts it per controlled agent.
	return e.frame(), []float64{reward}, e.done, nil
}

func (e *Engine) applyAction(idx int, a engine.Action) {
	p := &e.left[idx]
	owns := e.ball.Owner == engine.OwnerLeft && e.ball.OwnerIndex == idx

	switch {
	case a.IsDirection():
		p.moveX, p.moveY = a.Direction()
	case a == engine.ActionReleaseDirection:
		p.moveX, p.moveY = 0, 0
	case a == engine.ActionSprint:
		p.Sprinting = true
	case a == engine.ActionReleaseSprint:
		p.Sprinting = false
	case a == engine.ActionDribble:
		if owns {
			p.Dribbling = true
		}
	case a == engine.ActionReleaseDribble:
		p.Dribbling = false
	case a.IsKick():
		if owns {
			e.kick(idx, a)
		}
	case a == engine.ActionSliding:
		e.slide(idx)
	}
}

func (e *Engine) kick(idx int, a engine.Action) {
	from := e.left[idx].Pos
	var tx, ty, speed, z float64
	switch a {
	case engine.ActionShot:
		tx, ty = pitchHalfWidth, 0
		speed = shotSpeed
		z = 0.06 // lofted: keepers cannot claim an airborne ball
	case engine.ActionShortPass, engine.ActionLongPass, engine.ActionHighPass:
		ti := e.nearestTeammate(idx)
		if ti < 0 {
			tx, ty = pitchHalfWidth, 0
		} else {
			tx, ty = e.left[ti].Pos.X, e.left[ti].Pos.Y
		}
		speed = passSpeed
		if a == engine.ActionLongPass {
			speed = passSpeed * 1.5
		}
		if a == engine.ActionHighPass {
			z = 0.1
		}
	}
	dx, dy := norm2(tx-from.X, ty-from.Y)
	e.ball.Dir = engine.Vec3{X: dx * speed, Y: dy * speed, Z: z}
	e.ball.Owner = engine.OwnerNone
	e.ball.OwnerIndex = -1
	e.left[idx].Dribbling = false
}

func (e *Engine) slide(idx int) {
	if e.ball.Owner != engine.OwnerRight {
		return
	}
	p := e.left[idx]
	if dist2(p.Pos.X, p.Pos.Y, e.ball.Pos.X, e.ball.Pos.Y) > possessRadius*2 {
		return
	}
	// Slide succeeds most of the time; the miss chance comes from the
	// episode stream so replays stay bit-identical.
	if e.spec.Deterministic || e.rng.Float64() < 0.8 {
		e.ball.Owner = engine.OwnerLeft
		e.ball.OwnerIndex = idx
	}
}

func (e *Engine) moveControlled() {
	for _, idx := range e.active {
		p := &e.left[idx]
		speed := baseSpeed
		if p.Sprinting {
			speed *= sprintFactor
		}
		if p.Dribbling {
			speed *= 0.8
		}
		p.Dir = engine.Vec2{X: p.moveX * speed, Y: p.moveY * speed}
		p.Pos.X = clamp(p.Pos.X+p.Dir.X, -pitchHalfWidth, pitchHalfWidth)
		p.Pos.Y = clamp(p.Pos.Y+p.Dir.Y, -pitchHalfHeight, pitchHalfHeight)
	}
}

// moveScripted drives every uncontrolled player: keepers hold the goal line,
// field players chase the ball.
func (e *Engine) moveScripted() {
	controlled := map[int]bool{}
	for _, idx := range e.active {
		controlled[idx] = true
	}
	for i := range e.left {
		if controlled[i] {
			continue
		}
		e.scriptPlayer(&e.left[i], -pitchHalfWidth)
	}
	for i := range e.right {
		e.scriptPlayer(&e.right[i], pitchHalfWidth)
	}
}

func (e *Engine) scriptPlayer(p *playerState, goalX float64) {
	var tx, ty float64
	if p.role == scenario.RoleGK {
		tx = goalX
		ty = clamp(e.ball.Pos.Y, -goalHalfWidth*2, goalHalfWidth*2)
	} else {
		tx, ty = e.ball.Pos.X, e.ball.Pos.Y
	}
	dx, dy := norm2(tx-p.Pos.X, ty-p.Pos.Y)
	jx, jy := 0.0, 0.0
	if !e.spec.Deterministic {
		jx = (e.rng.Float64() - 0.5) * 0.2
		jy = (e.rng.Float64() - 0.5) * 0.2
	}
	p.Dir = engine.Vec2{X: (dx + jx) * baseSpeed, Y: (dy + jy) * baseSpeed}
	p.Pos.X = clamp(p.Pos.X+p.Dir.X, -pitchHalfWidth, pitchHalfWidth)
	p.Pos.Y = clamp(p.Pos.Y+p.Dir.Y, -pitchHalfHeight, pitchHalfHeight)
}

func (e *Engine) moveBall() {
	switch e.ball.Owner {
	case engine.OwnerLeft:
		p := e.left[e.ball.OwnerIndex]
		e.ball.Pos = engine.Vec3{X: p.Pos.X, Y: p.Pos.Y}
		e.ball.Dir = engine.Vec3{X: p.Dir.X, Y: p.Dir.Y}
	case engine.OwnerRight:
		p := e.right[e.ball.OwnerIndex]
		e.ball.Pos = engine.Vec3{X: p.Pos.X, Y: p.Pos.Y}
		e.ball.Dir = engine.Vec3{X: p.Dir.X, Y: p.Dir.Y}
	default:
		e.ball.Pos.X += e.ball.Dir.X
		e.ball.Pos.Y += e.ball.Dir.Y
		e.ball.Pos.Z = math.Max(0, e.ball.Pos.Z+e.ball.Dir.Z)
		e.ball.Dir.X *= ballFriction
		e.ball.Dir.Y *= ballFriction
		e.ball.Dir.Z -= 0.01
	}
}

// claimBall gives a loose low ball to the nearest player in range. Left team
// wins exact ties so repeated runs stay deterministic.
func (e *Engine) claimBall() {
	if e.ball.Owner != engine.OwnerNone || e.ball.Pos.Z > 0.05 {
		return
	}
	bestD := possessRadius
	owner := engine.OwnerNone
	ownerIdx := -1
	for i, p := range e.left {
		if d := dist2(p.Pos.X, p.Pos.Y, e.ball.Pos.X, e.ball.Pos.Y); d < bestD {
			bestD, owner, ownerIdx = d, engine.OwnerLeft, i
		}
	}
	for i, p := range e.right {
		if d := dist2(p.Pos.X, p.Pos.Y, e.ball.Pos.X, e.ball.Pos.Y); d < bestD {
			bestD, owner, ownerIdx = d, engine.OwnerRight, i
		}
	}
	e.ball.Owner = owner
	e.ball.OwnerIndex = ownerIdx
}

func (e *Engine) goalCrossed() (float64, bool) {
	if math.Abs(e.ball.Pos.Y) > goalHalfWidth {
		return 0, false
	}
	if e.ball.Pos.X > pitchHalfWidth {
		return 1, true
	}
	if e.ball.Pos.X < -pitchHalfWidth {
		return -1, true
	}
	return 0, false
}

func (e *Engine) outOfPlay() (bool, engine.GameMode) {
	if math.Abs(e.ball.Pos.Y) > pitchHalfHeight {
		return true, engine.ModeThrowIn
	}
	if math.Abs(e.ball.Pos.X) > pitchHalfWidth {
		// Side lines with the goal band excluded were handled as goals.
		return true, engine.ModeGoalKick
	}
	return false, engine.ModeNormal
}

func (e *Engine) restart(mode engine.GameMode, x, y float64) {
	e.mode = mode
	e.ball = engine.Ball{Pos: engine.Vec3{X: x, Y: y}, Owner: engine.OwnerNone, OwnerIndex: -1}
	for i := range e.left {
		e.left[i].moveX, e.left[i].moveY = 0, 0
		e.left[i].Dir = engine.Vec2{}
		e.left[i].Dribbling = false
	}
}

func (e *Engine) nearestTeammate(idx int) int {
	from := e.left[idx].Pos
	best := -1
	bestD := math.Inf(1)
	for i, p := range e.left {
		if i == idx {
			continue
		}
		if d := dist2(p.Pos.X, p.Pos.Y, from.X, from.Y); d < bestD {
			bestD, best = d, i
		}
	}
	return best
}

func (e *Engine) frame() *engine.Frame {
	f := &engine.Frame{
		Left:       make([]engine.Player, len(e.left)),
		Right:      make([]engine.Player, len(e.right)),
		Ball:       e.ball,
		Mode:       e.mode,
		Active:     append([]int(nil), e.active...),
		ScoreLeft:  e.scoreLeft,
		ScoreRight: e.scoreRight,
	}
	for i, p := range e.left {
		f.Left[i] = p.Player
	}
	for i, p := range e.right {
		f.Right[i] = p.Player
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dist2(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return math.Sqrt(dx*dx + dy*dy)
}

func norm2(x, y float64) (float64, float64) {
	d := math.Sqrt(x*x + y*y)
	if d == 0 {
		return 0, 0
	}
	return x / d, y / d
}
