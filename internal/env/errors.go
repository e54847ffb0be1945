package env

import (
	"errors"
	"fmt"
)

// All adapter failures are reported synchronously from the call that
// detected them; nothing is deferred to a later tick.
var (
	// ErrInvalidAgentIndex: encoder or mask generator called with a roster
	// index that is not currently active. Caller bug, never retried.
	ErrInvalidAgentIndex = errors.New("invalid agent index")

	// ErrAgentSetMismatch: a multi-agent step whose action keys differ
	// from the active handle set.
	ErrAgentSetMismatch = errors.New("agent set mismatch")

	// ErrEpisodeDone: step/advance after terminated or truncated without
	// an intervening reset.
	ErrEpisodeDone = errors.New("episode already done")
)

// EngineError wraps an opaque failure surfaced by the underlying engine.
// Engine state after a failure is undefined, so it always propagates and is
// never retried in-process.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string { return fmt.Sprintf("engine %s: %v", e.Op, e.Err) }
func (e *EngineError) Unwrap() error { return e.Err }

func engineErr(op string, err error) error {
	return &EngineError{Op: op, Err: err}
}
