package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Adapter error taxonomy.
	ErrAgentSetMismatch  = "E_AGENT_SET_MISMATCH"
	ErrInvalidAgentIndex = "E_INVALID_AGENT_INDEX"
	ErrEpisodeDone       = "E_EPISODE_DONE"
	ErrBadScenario       = "E_BAD_SCENARIO"

	// Engine failures are not recoverable in-process.
	ErrEngine   = "E_ENGINE"
	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrAgentSetMismatch:  {},
	ErrInvalidAgentIndex: {},
	ErrEpisodeDone:       {},
	ErrBadScenario:       {},
	ErrEngine:            {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
