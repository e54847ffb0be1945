package env

import (
	"fmt"

	"pitchcraft.ai/internal/scenario"
)

// Representation selects the observation encoding. It is a closed set fixed
// at construction; there is no per-call or string-keyed dispatch.
type Representation int

const (
	// RepRaw returns no feature vector; the raw frame is exposed through
	// Info.Frame instead.
	RepRaw Representation = iota
	// RepSimpleV1 is the compact egocentric vector of size 7*n1+6*n2+18.
	RepSimpleV1
)

func (r Representation) String() string {
	switch r {
	case RepRaw:
		return "raw"
	case RepSimpleV1:
		return "simplev1"
	}
	return "invalid"
}

// ParseRepresentation maps a config string to a Representation.
func ParseRepresentation(s string) (Representation, error) {
	switch s {
	case "", "raw":
		return RepRaw, nil
	case "simplev1":
		return RepSimpleV1, nil
	}
	return 0, fmt.Errorf("unsupported representation: %s", s)
}

// Config is the environment construction surface. Roster sizes are derived
// from the scenario at reset; everything else is fixed for the lifetime of
// the environment.
type Config struct {
	// Scenario is a built-in scenario name or a path to a YAML spec.
	Scenario string

	Representation Representation

	// LeftControlled is the number of left-team players the agent
	// controls; 0 means "all controllable players in the scenario".
	LeftControlled int

	// RightControlled is accepted for config compatibility but must be 0:
	// the simplev1 representation is left-team egocentric.
	RightControlled int

	// EpisodeLength is the adapter-side step budget (max_steps). The
	// episode truncates exactly at this step count.
	EpisodeLength int

	// DisableActionMask drops the legality mask from Info. The mask is on
	// by default.
	DisableActionMask bool

	// Rewards selects reward composition: "scoring" or
	// "scoring,checkpoints".
	Rewards string
}

func (c *Config) applyDefaults() {
	if c.Scenario == "" {
		c.Scenario = "academy_empty_goal_close"
	}
	if c.EpisodeLength <= 0 {
		c.EpisodeLength = 400
	}
	if c.Rewards == "" {
		c.Rewards = "scoring"
	}
}

func (c *Config) validate() error {
	if c.LeftControlled < 0 {
		return fmt.Errorf("negative left_controlled: %d", c.LeftControlled)
	}
	if c.RightControlled != 0 {
		return fmt.Errorf("right-side control is not supported: %d", c.RightControlled)
	}
	switch c.Rewards {
	case "scoring", "scoring,checkpoints":
	default:
		return fmt.Errorf("unsupported rewards: %s", c.Rewards)
	}
	if _, err := scenario.Resolve(c.Scenario); err != nil {
		return err
	}
	return nil
}

// EncoderConfig pins the roster geometry the encoder was built for. Any
// roster size change requires constructing a new encoder.
type EncoderConfig struct {
	LeftCount  int // n1
	RightCount int // n2
	Controlled int // n0
}

// AgentDim is the length of the egocentric simplev1 vector.
func (c EncoderConfig) AgentDim() int { return 7*c.LeftCount + 6*c.RightCount + 18 }

// StateDim is the length of the shared team-relative state vector.
func (c EncoderConfig) StateDim() int {
	return 4*(c.LeftCount+c.RightCount) + c.Controlled*c.LeftCount + 16
}
