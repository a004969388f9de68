// Package observe is the evaluator's event/observability stream (SPEC_FULL
// §1.1): the core stays synchronous and never logs directly, but exposes a
// narrow event hook so a caller can watch stratification and semi-naive
// progress the way the teacher's datalog/annotations package exposes
// executor/planner events. Grounded directly on
// datalog/annotations/types.go and output.go.
package observe

import "time"

// Event name constants, hierarchically named like the teacher's.
const (
	StratifyBegin             = "stratify/begin"
	StratifyComplete          = "stratify/completed"
	NegativeRecursionDetected = "stratify/negative-recursion"

	StratumBegin      = "stratum/begin"
	StratumIteration  = "stratum/iteration"
	StratumFixedPoint = "stratum/fixed-point"
	RuleFired         = "rule/fired"

	QueryInvoked  = "query/invoked"
	QueryComplete = "query/completed"
	DeleteApplied = "delete/applied"
)

// Event represents a single observation during evaluation.
type Event struct {
	Name    string
	Data    map[string]any
	Latency time.Duration
}

// Handler processes events as they occur. A nil Handler means no
// observation: Emit and EmitTiming return at once when the handler is nil,
// so passing nil costs nothing beyond the branch.
type Handler func(Event)

// Emit calls h with the event if h is non-nil.
func Emit(h Handler, name string, data map[string]any) {
	if h == nil {
		return
	}
	h(Event{Name: name, Data: data})
}

// EmitTiming calls h with the event and its elapsed latency since start, if
// h is non-nil.
func EmitTiming(h Handler, name string, start time.Time, data map[string]any) {
	if h == nil {
		return
	}
	h(Event{Name: name, Data: data, Latency: time.Since(start)})
}
