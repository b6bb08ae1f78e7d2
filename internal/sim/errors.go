package sim

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a precondition failure. These are local, recoverable
// signals: the planner treats them as repair triggers, never as fatal.
type ErrorKind string

const (
	// ErrInvalidTarget means the action referenced an unknown room or
	// object. Checked before any other precondition.
	ErrInvalidTarget ErrorKind = "invalid_target"

	// ErrHandsFull means pickup was attempted while already holding
	// something.
	ErrHandsFull ErrorKind = "hands_full"

	// ErrWrongLocation means the target object is not co-located with
	// the agent.
	ErrWrongLocation ErrorKind = "wrong_location"

	// ErrNotHolding means drop was attempted for an object the agent is
	// not holding.
	ErrNotHolding ErrorKind = "not_holding"
)

// PreconditionError reports why an action is invalid in the current state.
type PreconditionError struct {
	Kind   ErrorKind
	Action ParsedAction
	Msg    string
}

func (e *PreconditionError) Error() string { return e.Msg }

// KindOf extracts the precondition error kind from err, or "" when err is
// not a precondition error.
func KindOf(err error) ErrorKind {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func invalidTarget(a ParsedAction, format string, args ...any) *PreconditionError {
	return &PreconditionError{Kind: ErrInvalidTarget, Action: a, Msg: fmt.Sprintf(format, args...)}
}

func handsFull(a ParsedAction) *PreconditionError {
	return &PreconditionError{Kind: ErrHandsFull, Action: a, Msg: "hand not empty"}
}

func wrongLocation(a ParsedAction, format string, args ...any) *PreconditionError {
	return &PreconditionError{Kind: ErrWrongLocation, Action: a, Msg: fmt.Sprintf(format, args...)}
}

func notHolding(a ParsedAction) *PreconditionError {
	return &PreconditionError{Kind: ErrNotHolding, Action: a, Msg: fmt.Sprintf("not holding %s", a.Arg)}
}

// ConfigError reports a configuration mistake (unknown goal predicate,
// malformed layout). Distinct from task-execution errors: callers should
// fail fast rather than record it as a task outcome.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Msg }

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
