// Package diagnostic hosts the structured-diagnostic engine the V-CFG Engine's verifier and the
// Def-Use Builder's recovery paths report through (spec.md §7 "Error handling design"). Nothing
// here aborts an analysis: every diagnostic is best-effort bookkeeping, matching spec.md's "The
// core does not 'fail'" framing.
package diagnostic

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/typechef-go/vcfgcore/cnode"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	// Info is a recovery path taken deliberately (e.g. an unresolved name registered as a
	// synthetic self-definition).
	Info Severity = iota
	// Warning is a structural precondition violation that the traversal recovered from (e.g. a
	// break outside any loop/switch).
	Warning
	// Error is a consistency-check failure from the V-CFG verifier (spec.md §4.2.7).
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported finding. Node is the node the diagnostic is about (for a CFG edge
// mismatch, the source node of the missing edge); it may be nil for diagnostics with no single
// anchor node.
type Diagnostic struct {
	Severity Severity
	Message  string
	Node     cnode.Node
}

func (d Diagnostic) String() string {
	if d.Node == nil {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] %s (node %s)", d.Severity, d.Message, d.Node.Identity())
}

// Engine collects diagnostics for one analysis session and emits them in a stable order,
// modeled on the teacher's diagnostic.Engine (collect-then-sort-then-emit).
type Engine struct {
	diags []Diagnostic
}

// NewEngine creates an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Report records a diagnostic.
func (e *Engine) Report(d Diagnostic) {
	e.diags = append(e.diags, d)
}

// Reportf is a convenience wrapper that formats Message.
func (e *Engine) Reportf(sev Severity, node cnode.Node, format string, args ...any) {
	e.Report(Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...), Node: node})
}

// Diagnostics returns all collected diagnostics sorted by severity (most severe first), then by
// message, for deterministic output.
func (e *Engine) Diagnostics() []Diagnostic {
	out := slices.Clone(e.diags)
	slices.SortFunc(out, func(a, b Diagnostic) int {
		if a.Severity != b.Severity {
			return cmp.Compare(b.Severity, a.Severity)
		}
		return cmp.Compare(a.Message, b.Message)
	})
	return out
}

// Len returns the number of collected diagnostics.
func (e *Engine) Len() int { return len(e.diags) }
