// Package errs defines the structured diagnostic type every exported
// core function returns in its error slot (spec.md §7). A Diagnostic
// is never panicked past a package boundary — the single internal
// invariant-violation panic site (checksum self-disagreement) recovers
// at the nearest exported function and returns one of these instead.
package errs

import "fmt"

// Code classifies a Diagnostic per spec.md §7.
type Code int

const (
	// MalformedInput means a caller passed a structurally invalid
	// argument (negative length, wrong sample rate, nil required
	// callback) — a programming error, not a signal-quality problem.
	MalformedInput Code = iota
	// NoSignal means the input contained nothing resembling the
	// expected signal. Per spec.md §7 this is reported as an empty
	// result, not returned as an error, by most core functions; the
	// code exists for the rare function (e.g. LockCycles) that must
	// distinguish "found nothing" from "succeeded with nothing to do".
	NoSignal
	// LowConfidence flags a result that completed but fell below a
	// caller-meaningful confidence threshold. Like NoSignal, most
	// callers see this as a field on the result, not an error value.
	LowConfidence
	// InternalInvariantViolation means an internal self-check failed —
	// a bug, never reachable from valid input.
	InternalInvariantViolation
)

func (c Code) String() string {
	switch c {
	case MalformedInput:
		return "malformed_input"
	case NoSignal:
		return "no_signal"
	case LowConfidence:
		return "low_confidence"
	case InternalInvariantViolation:
		return "internal_invariant_violation"
	default:
		return "unknown"
	}
}

// Diagnostic is the error type every core function returns. Context
// carries whatever debugging fields the raising site found useful
// (frame indices, sample counts) without forcing every caller through
// a fixed struct shape.
type Diagnostic struct {
	Code    Code
	Message string
	Context map[string]any
}

// New constructs a Diagnostic with no context.
func New(code Code, message string) *Diagnostic {
	return &Diagnostic{Code: code, Message: message}
}

// Newf constructs a Diagnostic with a formatted message.
func Newf(code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

// With returns a copy of d with key/value added to its Context.
func (d *Diagnostic) With(key string, value any) *Diagnostic {
	ctx := make(map[string]any, len(d.Context)+1)
	for k, v := range d.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Diagnostic{Code: d.Code, Message: d.Message, Context: ctx}
}

func (d *Diagnostic) Error() string {
	if len(d.Context) == 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s %v", d.Code, d.Message, d.Context)
}
