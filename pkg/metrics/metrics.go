package metrics

import "time"

// RecordLookup records a derivative cache lookup and its outcome.
func (r *Registry) RecordLookup(hit bool) {
	if hit {
		r.CollectorLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		r.CollectorLookupsTotal.WithLabelValues("miss").Inc()
	}
}

// RecordEntry records the current number of registered derivative entries.
func (r *Registry) RecordEntry(totalEntries int) {
	r.CollectorEntriesTotal.Set(float64(totalEntries))
}

// RecordGraphSize records the active node count of a scheduling graph.
func (r *Registry) RecordGraphSize(activeNodes int) {
	r.GraphNodesTotal.Set(float64(activeNodes))
}

// RecordPrune records the outcome of a reachability pruning pass.
func (r *Registry) RecordPrune(removed int) {
	r.GraphPrunedTotal.Add(float64(removed))
}

// RecordPlan records the time spent computing a generation order.
func (r *Registry) RecordPlan(duration time.Duration) {
	r.PlanDuration.Observe(duration.Seconds())
}

// RecordSessionStart records the start of a generation session.
func (r *Registry) RecordSessionStart() {
	r.SessionsTotal.Inc()
}
