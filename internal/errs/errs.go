// Package errs defines the error taxonomy shared by the workflow engine and
// the agents. Stages classify failures into these types so the engine can
// route them: transient errors are retried, incomplete-data errors defer the
// run, exhausted budgets degrade the decision, persistence conflicts resolve
// to idempotent upserts, and configuration errors abort immediately.
package errs

import (
	"errors"
	"fmt"
)

// TransientError marks a retryable failure, typically a network, API, or LLM
// timeout. The engine retries the stage with backoff up to a configured bound.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a retryable failure.
func Transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// DataIncompleteError marks missing or partial upstream data. It is a normal
// decision input (DEFER), never a hard failure, and never escalates.
type DataIncompleteError struct {
	Op     string
	Reason string
}

func (e *DataIncompleteError) Error() string {
	return fmt.Sprintf("incomplete data: %s: %s", e.Op, e.Reason)
}

// Incomplete reports op as having produced incomplete data.
func Incomplete(op, reason string) error {
	return &DataIncompleteError{Op: op, Reason: reason}
}

// IsIncomplete reports whether err signals missing upstream data.
func IsIncomplete(err error) bool {
	var d *DataIncompleteError
	return errors.As(err, &d)
}

// ResourceExhaustedError marks a rate-limit hit. Callers degrade the decision
// (auto-apply falls back to approval) rather than aborting the run.
type ResourceExhaustedError struct {
	Scope string
	Kind  string
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("rate limit exhausted for scope %q (%s window)", e.Scope, e.Kind)
}

// Exhausted reports the rate budget for scope as spent in the given window.
func Exhausted(scope, kind string) error {
	return &ResourceExhaustedError{Scope: scope, Kind: kind}
}

// IsExhausted reports whether err is a rate-limit exhaustion.
func IsExhausted(err error) bool {
	var r *ResourceExhaustedError
	return errors.As(err, &r)
}

// ErrConflict marks a duplicate write detected by the persistence layer. The
// store resolves it with an idempotent upsert; callers treat the existing
// record as authoritative.
var ErrConflict = errors.New("persistence conflict")

// ConfigError marks invalid configuration (thresholds, weights, window
// limits). It aborts the run immediately and is surfaced to the caller.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Config reports field as invalid.
func Config(field, reason string) error {
	return &ConfigError{Field: field, Reason: reason}
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	var c *ConfigError
	return errors.As(err, &c)
}
