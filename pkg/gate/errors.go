package gate

import (
	"errors"
	"fmt"
)

// ErrSubmitInFlight reports a Submit call while a previous round trip on the
// same session is still pending.
var ErrSubmitInFlight = errors.New("gate: submit already in flight")

// GateError reports a submit attempt while the gate is not open. It names the
// failing condition; no write happened.
type GateError struct {
	State State
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate: submission locked (%s)", e.State.Kind)
}
