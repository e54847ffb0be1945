package scenario

import "fmt"

// Builder produces the spec for a given episode number. Some academy
// scenarios alternate placements between episodes, so the episode index is
// part of the input rather than hidden state.
type Builder func(episode int) Spec

// builtins is a fixed table; it is never mutated after init.
var builtins = map[string]Builder{
	"academy_empty_goal_close":   academyEmptyGoalClose,
	"academy_empty_goal":         academyEmptyGoal,
	"academy_3_vs_1_with_keeper": academy3vs1WithKeeper,
	"academy_pass_and_shoot":     academyPassAndShoot,
	"keeper_test":                keeperTest,
	"1_vs_1_easy":                oneVsOneEasy,
}

// Lookup resolves a built-in scenario by name.
func Lookup(name string) (Builder, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return b, nil
}

// Names lists the built-in scenario names (unsorted).
func Names() []string {
	out := make([]string, 0, len(builtins))
	for k := range builtins {
		out = append(out, k)
	}
	return out
}

func academyEmptyGoalClose(int) Spec {
	return Spec{
		Name:          "academy_empty_goal_close",
		GameDuration:  400,
		Deterministic: false,
		BallX:         0.77, BallY: 0.0,
		Left: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: 0.75, Y: 0.00, Role: RoleCF, Controllable: true},
		},
		Right: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
		},
		EndOnScore:     true,
		EndOnOutOfPlay: true,
	}
}

func academyEmptyGoal(int) Spec {
	s := academyEmptyGoalClose(0)
	s.Name = "academy_empty_goal"
	s.BallX = 0.02
	s.Left[1] = Spawn{X: 0.0, Y: 0.0, Role: RoleCF, Controllable: true}
	return s
}

func academy3vs1WithKeeper(int) Spec {
	return Spec{
		Name:          "academy_3_vs_1_with_keeper",
		GameDuration:  400,
		Deterministic: false,
		BallX:         0.62, BallY: 0.0,
		Left: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: 0.60, Y: 0.20, Role: RoleLM, Controllable: true},
			{X: 0.60, Y: 0.00, Role: RoleCM, Controllable: true},
			{X: 0.60, Y: -0.20, Role: RoleRM, Controllable: true},
		},
		Right: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: -0.75, Y: 0.00, Role: RoleCB},
		},
		EndOnScore:            true,
		EndOnPossessionChange: true,
		EndOnOutOfPlay:        true,
	}
}

func academyPassAndShoot(int) Spec {
	return Spec{
		Name:          "academy_pass_and_shoot_with_keeper",
		GameDuration:  400,
		Deterministic: false,
		BallX:         0.72, BallY: -0.22,
		Left: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: 0.70, Y: -0.20, Role: RoleCF, Controllable: true},
			{X: 0.70, Y: 0.00, Role: RoleCF, Controllable: true},
		},
		Right: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: -0.72, Y: -0.20, Role: RoleCB},
		},
		EndOnScore:            true,
		EndOnPossessionChange: true,
		EndOnOutOfPlay:        true,
	}
}

// keeperTest alternates the kickoff ball position between episodes, matching
// the engine's keeper regression scenario.
func keeperTest(episode int) Spec {
	s := Spec{
		Name:          "keeper_test",
		GameDuration:  30,
		Deterministic: false,
		Left: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK, Controllable: true},
			{X: 0.85, Y: 0.30, Role: RoleRM, Controllable: true},
			{X: 0.00, Y: 0.00, Role: RoleRM, Controllable: true},
		},
		Right: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: 0.85, Y: 0.30, Role: RoleRM},
		},
	}
	if episode%2 == 0 {
		s.BallX, s.BallY = 0.9, 0.3
	} else {
		s.BallX, s.BallY = -0.9, -0.3
	}
	return s
}

func oneVsOneEasy(int) Spec {
	return Spec{
		Name:          "1_vs_1_easy",
		GameDuration:  500,
		Deterministic: false,
		BallX:         0.0, BallY: 0.0,
		Left: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: -0.05, Y: 0.00, Role: RoleCF, Controllable: true},
		},
		Right: []Spawn{
			{X: -1.00, Y: 0.00, Role: RoleGK},
			{X: -0.05, Y: 0.00, Role: RoleCF},
		},
		EndOnScore: true,
	}
}
