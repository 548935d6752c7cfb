package tenderflow

import "fmt"

// GateError reports that an action is not permitted given the current
// entity state. It is always recoverable by the caller correcting the
// precondition first.
type GateError struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s not allowed: %s", e.Action, e.Reason)
}

// ConflictError reports that a precondition observed at request time no
// longer held when the transaction committed. Callers should re-read and
// retry instead of prompting the user to change input.
type ConflictError struct {
	Entity   string `json:"entity"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s changed since read: expected %q, found %q", e.Entity, e.Expected, e.Actual)
}

// ConfigError indicates a status or instrument type missing from the
// loaded registry. This is a deployment defect, not a user error, and is
// never recovered locally.
type ConfigError struct {
	What string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.What
}
