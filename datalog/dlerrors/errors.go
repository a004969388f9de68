// Package dlerrors defines the error kinds named in spec §7. Each is a
// concrete type rather than a sentinel so callers can carry structured
// detail (a line number, a predicate trail) while still supporting
// errors.As/errors.Is the way the teacher's codebase wraps with "%w" rather
// than reaching for a third-party error-wrapping package.
package dlerrors

import "fmt"

// ParseError reports malformed surface syntax, carrying the source line.
type ParseError struct {
	Line    int
	Message string
	Cause   error
}

func NewParseError(line int, message string) *ParseError {
	return &ParseError{Line: line, Message: message}
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error (line %d): %s", e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError reports a rule/fact failing the checks in spec §4.5:
// fact not ground, fact negated, rule not range-restricted, head built-in
// or negated, or an empty rule body.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NegativeRecursion reports a negative cycle found during stratification,
// carrying a human-readable predicate trail (spec §4.6).
type NegativeRecursion struct {
	Trail []string
}

func NewNegativeRecursion(trail []string) *NegativeRecursion {
	return &NegativeRecursion{Trail: trail}
}

func (e *NegativeRecursion) Error() string {
	return fmt.Sprintf("negative recursion detected: %s", formatTrail(e.Trail))
}

func formatTrail(trail []string) string {
	out := ""
	for i, p := range trail {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	return out
}

// UnboundBuiltin reports a built-in predicate encountered with
// insufficiently-bound operands at evaluation time — the validator should
// have prevented this (spec §7), so seeing one at runtime signals a gap in
// range-restriction checking.
type UnboundBuiltin struct {
	Message string
}

func NewUnboundBuiltin(message string) *UnboundBuiltin {
	return &UnboundBuiltin{Message: message}
}

func (e *UnboundBuiltin) Error() string {
	return fmt.Sprintf("unbound built-in operand: %s", e.Message)
}

// InternalInvariant reports a structural invariant violated — a programming
// bug in the engine itself, never user input.
type InternalInvariant struct {
	Message string
}

func NewInternalInvariant(message string) *InternalInvariant {
	return &InternalInvariant{Message: message}
}

func (e *InternalInvariant) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Message)
}
