package scenario

import "fmt"

// Player roles, mirroring the engine's role taxonomy. Roles are opaque to the
// adapter; the built-in engine only distinguishes GK for possession rules.
const (
	RoleGK = "GK"
	RoleCB = "CB"
	RoleLB = "LB"
	RoleRB = "RB"
	RoleDM = "DM"
	RoleCM = "CM"
	RoleLM = "LM"
	RoleRM = "RM"
	RoleAM = "AM"
	RoleCF = "CF"
)

// Spawn places one player at kickoff. Coordinates use the engine's pitch
// frame: x in [-1,1] (left goal at x=-1), y in [-0.42,0.42].
type Spawn struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Role         string  `yaml:"role"`
	Controllable bool    `yaml:"controllable"`
}

// Spec is one fully resolved scenario: initial placements plus episode rules.
type Spec struct {
	Name string `yaml:"name"`

	// GameDuration is the engine-side episode length in ticks. 0 means
	// unbounded (the adapter's own episode_length still truncates).
	GameDuration int `yaml:"game_duration"`

	// Deterministic disables engine-side stochasticity (opponent jitter).
	Deterministic bool `yaml:"deterministic"`

	BallX float64 `yaml:"ball_x"`
	BallY float64 `yaml:"ball_y"`

	Left  []Spawn `yaml:"left"`
	Right []Spawn `yaml:"right"`

	// Academy end conditions.
	EndOnScore            bool `yaml:"end_on_score"`
	EndOnPossessionChange bool `yaml:"end_on_possession_change"`
	EndOnOutOfPlay        bool `yaml:"end_on_out_of_play"`
}

func (s *Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: empty name")
	}
	if len(s.Left) == 0 {
		return fmt.Errorf("scenario %s: no left players", s.Name)
	}
	for i, p := range s.Left {
		if err := checkSpawn(p); err != nil {
			return fmt.Errorf("scenario %s: left[%d]: %w", s.Name, i, err)
		}
	}
	for i, p := range s.Right {
		if err := checkSpawn(p); err != nil {
			return fmt.Errorf("scenario %s: right[%d]: %w", s.Name, i, err)
		}
	}
	if s.ControllableLeft() == 0 {
		return fmt.Errorf("scenario %s: no controllable left players", s.Name)
	}
	return nil
}

func checkSpawn(p Spawn) error {
	if p.X < -1.0 || p.X > 1.0 {
		return fmt.Errorf("x out of pitch: %v", p.X)
	}
	if p.Y < -0.42 || p.Y > 0.42 {
		return fmt.Errorf("y out of pitch: %v", p.Y)
	}
	return nil
}

// ControllableLeft counts left-team players an agent may control.
func (s *Spec) ControllableLeft() int {
	n := 0
	for _, p := range s.Left {
		if p.Controllable {
			n++
		}
	}
	return n
}

func (s *Spec) ControllableRight() int {
	n := 0
	for _, p := range s.Right {
		if p.Controllable {
			n++
		}
	}
	return n
}
