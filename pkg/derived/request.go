// Package derived records the derivatives produced during one generation
// session so that semantically equivalent requests are served from cache
// instead of regenerating the same function. Declaration handles are opaque
// to this package; any comparable type the host frontend uses to identify a
// function works as the Fn parameter.
package derived

import (
	"fmt"
	"slices"
	"strings"
)

// Mode selects the differentiation strategy for a request.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeForward
	ModeReverse
	ModeHessian
	ModeJacobian
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeReverse:
		return "reverse"
	case ModeHessian:
		return "hessian"
	case ModeJacobian:
		return "jacobian"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode. Unrecognized input yields
// ModeUnknown.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "forward":
		return ModeForward
	case "reverse":
		return ModeReverse
	case "hessian":
		return ModeHessian
	case "jacobian":
		return ModeJacobian
	default:
		return ModeUnknown
	}
}

// Request describes one derivative the orchestrator wants generated.
//
// Target, Mode, Order, Independents, and EnableTBR define the derivative's
// semantics and participate in cache equivalence. Verbose only controls
// diagnostic output and must never influence a cache decision.
type Request[Fn comparable] struct {
	// Target is the original declaration to differentiate.
	Target Fn

	// Mode is the differentiation strategy.
	Mode Mode

	// Order is the requested derivative order (1 for first derivatives).
	Order uint

	// Independents names the variables to differentiate with respect to.
	// Compared as a set: order and repetition do not matter.
	Independents []string

	// EnableTBR toggles to-be-recorded analysis, which changes the code
	// emitted for reverse-mode derivatives.
	EnableTBR bool

	// Verbose requests extra diagnostics during generation.
	Verbose bool
}

// Key returns a canonical string for the request's equivalence class:
// identical keys mean the same derivative. Informational fields such as
// Verbose are excluded.
func (r Request[Fn]) Key() string {
	vars := slices.Clone(r.Independents)
	slices.Sort(vars)
	vars = slices.Compact(vars)
	return fmt.Sprintf("%v|%s|%d|%s|tbr=%t",
		r.Target, r.Mode, r.Order, strings.Join(vars, ","), r.EnableTBR)
}

// sameVariables reports whether two independent-variable lists denote the
// same set, ignoring order and repetition.
func sameVariables(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}
