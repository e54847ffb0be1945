package protocol

// HELLO (client -> server): opens one environment session.
type HelloMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	AgentName       string    `json:"agent_name"`
	Config          EnvConfig `json:"config"`
}

// EnvConfig is the wire form of the environment configuration surface.
type EnvConfig struct {
	Scenario          string `json:"scenario,omitempty"`
	Representation    string `json:"representation,omitempty"`
	LeftControlled    int    `json:"number_of_left_players_agent_controls,omitempty"`
	RightControlled   int    `json:"number_of_right_players_agent_controls,omitempty"`
	EpisodeLength     int    `json:"episode_length,omitempty"`
	DisableActionMask bool   `json:"disable_action_mask,omitempty"`
	Rewards           string `json:"rewards,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	SessionID       string    `json:"session_id"`
	Env             EnvParams `json:"env"`
}

// EnvParams pins the session's fixed geometry so clients can size their
// policy inputs before the first observation.
type EnvParams struct {
	Scenario       string `json:"scenario"`
	Representation string `json:"representation"`
	ActionCount    int    `json:"action_count"`
	EpisodeLength  int    `json:"episode_length"`
	Agents         int    `json:"agents"`
	AgentDim       int    `json:"agent_dim,omitempty"`
	StateDim       int    `json:"state_dim,omitempty"`
}

// RESET (client -> server)
type ResetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seed            *int64 `json:"seed,omitempty"`
}

// ACT (client -> server): exactly one action per active handle.
type ActMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Actions         map[string]int `json:"actions"`
}

// OBS (server -> client): the result of a RESET or ACT.
type ObsMsg struct {
	Type            string              `json:"type"`
	ProtocolVersion string              `json:"protocol_version"`
	EpisodeID       string              `json:"episode_id"`
	Step            int                 `json:"step"`
	Agents          map[string]AgentObs `json:"agents"`
	State           []float32           `json:"state,omitempty"`
	Done            bool                `json:"done"`
}

type AgentObs struct {
	Obs        []float32 `json:"obs,omitempty"`
	Reward     float64   `json:"reward"`
	Terminated bool      `json:"terminated"`
	Truncated  bool      `json:"truncated"`
	ActionMask []bool    `json:"action_mask,omitempty"`
	ScoreLeft  int       `json:"score_left"`
	ScoreRight int       `json:"score_right"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
