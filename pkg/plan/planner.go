// Package plan schedules pending differentiation requests. The orchestrator
// registers each request with its callee dependencies, cancels or prunes
// work that is no longer needed, and consumes the remaining requests in an
// order that respects the call graph.
package plan

import (
	"io"
	"time"

	"github.com/cmathis/diffkit/pkg/depgraph"
	"github.com/cmathis/diffkit/pkg/derived"
	"github.com/cmathis/diffkit/pkg/logging"
	"github.com/cmathis/diffkit/pkg/metrics"
	"github.com/cmathis/diffkit/pkg/session"
)

// Planner accumulates differentiation requests and their dependency edges
// for one scheduling pass. Graph labels are canonical request keys, so two
// requests for the same derivative collapse into one node even when their
// informational flags differ.
type Planner[Fn comparable] struct {
	graph    *depgraph.Graph[string]
	requests map[string]derived.Request[Fn]

	collector *derived.Collector[Fn]
	logger    logging.Logger
	metrics   *metrics.Registry

	// maxOrder caps the derivative order the planner accepts; zero means
	// no cap.
	maxOrder uint
}

// New creates a planner backed by the session's collector. logger and m may
// be nil.
func New[Fn comparable](c *derived.Collector[Fn], logger logging.Logger, m *metrics.Registry) *Planner[Fn] {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Planner[Fn]{
		graph:     depgraph.New[string](),
		requests:  make(map[string]derived.Request[Fn]),
		collector: c,
		logger:    logger,
		metrics:   m,
	}
}

// FromSession creates a planner wired to the session's collector, logger,
// metrics, and derivative-order cap.
func FromSession[Fn comparable](s *session.Session[Fn]) *Planner[Fn] {
	p := New(s.Collector(), s.Logger(), s.Metrics())
	p.maxOrder = s.Options().MaxDerivativeOrder
	return p
}

// LimitOrder caps the derivative order the planner accepts. Requests above
// the cap are rejected by AddRequest and AddDependency. Zero disables the
// cap.
func (p *Planner[Fn]) LimitOrder(max uint) {
	p.maxOrder = max
}

// AddRequest registers req as pending work. Root requests (those the user
// asked for directly, rather than discovered through a call) become sources
// of the scheduling graph. Requests above the order cap are dropped.
func (p *Planner[Fn]) AddRequest(req derived.Request[Fn], root bool) {
	if !p.accepts(req) {
		return
	}
	key := p.intern(req)
	if root {
		p.graph.AddSource(key)
	} else {
		p.graph.AddNode(key)
	}
	p.recordSize()
}

// AddDependency records that generating caller requires callee, adding
// either request if it is not yet registered. The edge is dropped entirely
// when either endpoint exceeds the order cap.
func (p *Planner[Fn]) AddDependency(caller, callee derived.Request[Fn]) {
	if !p.accepts(caller) || !p.accepts(callee) {
		return
	}
	p.graph.AddEdge(p.intern(caller), p.intern(callee))
	p.recordSize()
}

// accepts reports whether req is within the planner's order cap, warning
// when it is not.
func (p *Planner[Fn]) accepts(req derived.Request[Fn]) bool {
	if p.maxOrder > 0 && req.Order > p.maxOrder {
		p.logger.Warn("request exceeds derivative order cap",
			logging.String("request", req.Key()),
			logging.Uint("order", req.Order),
			logging.Uint("max_order", p.maxOrder))
		return false
	}
	return true
}

// Cancel withdraws req from the pending set. Requests only reachable
// through req remain until Prune runs.
func (p *Planner[Fn]) Cancel(req derived.Request[Fn]) {
	p.graph.RemoveNode(req.Key())
	p.recordSize()
}

// Pending returns the registered requests still scheduled, in registration
// order.
func (p *Planner[Fn]) Pending() []derived.Request[Fn] {
	keys := p.graph.Nodes()
	res := make([]derived.Request[Fn], 0, len(keys))
	for _, key := range keys {
		res = append(res, p.requests[key])
	}
	return res
}

// Prune drops requests the session has already satisfied — cache hits and
// requests targeting a declaration that is itself a recorded derivative —
// then removes everything no longer reachable from the root requests.
// Returns the total number of requests dropped.
func (p *Planner[Fn]) Prune() int {
	removed := 0
	for _, key := range p.graph.Nodes() {
		req := p.requests[key]
		if _, hit := p.collector.Find(req); hit {
			p.graph.RemoveNode(key)
			removed++
			continue
		}
		if p.collector.IsDerivative(req.Target) {
			p.graph.RemoveNode(key)
			removed++
		}
	}
	removed += p.graph.RemoveNonReachable()

	if p.metrics != nil {
		p.metrics.RecordPrune(removed)
	}
	p.recordSize()
	p.logger.Debug("pruned scheduling graph", logging.Int("removed", removed))
	return removed
}

// Order returns the remaining requests in an order consistent with the
// dependency edges: callees before their callers when calleesFirst is set,
// callers first otherwise. Requests unreachable from any root are omitted.
func (p *Planner[Fn]) Order(calleesFirst bool) []derived.Request[Fn] {
	start := time.Now()
	keys := p.graph.TopologicalSort(calleesFirst)
	res := make([]derived.Request[Fn], 0, len(keys))
	for _, key := range keys {
		res = append(res, p.requests[key])
	}
	if p.metrics != nil {
		p.metrics.RecordPlan(time.Since(start))
	}
	return res
}

// Dump writes the scheduling graph in human-readable form.
func (p *Planner[Fn]) Dump(w io.Writer) {
	p.graph.Dump(w, func(key string) string { return key })
}

// intern stores req under its canonical key. The first request registered
// for a derivative wins; later ones differing only in informational flags
// are dropped.
func (p *Planner[Fn]) intern(req derived.Request[Fn]) string {
	key := req.Key()
	if _, seen := p.requests[key]; !seen {
		p.requests[key] = req
	}
	return key
}

func (p *Planner[Fn]) recordSize() {
	if p.metrics != nil {
		p.metrics.RecordGraphSize(p.graph.Len())
	}
}
