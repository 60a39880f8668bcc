package derived

// Entry is one completed generation result: the parameters that defined the
// derivative plus a handle to the produced declaration. Entries are
// immutable once added.
type Entry[Fn comparable] struct {
	Target       Fn
	Mode         Mode
	Order        uint
	Independents []string
	EnableTBR    bool

	// Derived is the synthesized declaration.
	Derived Fn
}

// Satisfies reports whether the entry's derivative is the one req asks for:
// same target and identical semantics-affecting parameters. Informational
// request fields are ignored. This is the single equivalence predicate;
// every cache decision in the package routes through it.
func (e Entry[Fn]) Satisfies(req Request[Fn]) bool {
	return e.Target == req.Target &&
		e.Mode == req.Mode &&
		e.Order == req.Order &&
		e.EnableTBR == req.EnableTBR &&
		sameVariables(e.Independents, req.Independents)
}

// request reconstructs the request the entry answered.
func (e Entry[Fn]) request() Request[Fn] {
	return Request[Fn]{
		Target:       e.Target,
		Mode:         e.Mode,
		Order:        e.Order,
		Independents: e.Independents,
		EnableTBR:    e.EnableTBR,
	}
}

// Collector is the session-scoped registry of produced derivatives, keyed
// by the original declaration. It prevents repeated generation of the same
// derivative when the orchestrator consults Find before generating.
//
// The collector never removes entries; its lifetime is one generation
// session. It is not safe for concurrent use.
type Collector[Fn comparable] struct {
	byOrigin map[Fn][]Entry[Fn]

	// produced indexes the derived handles for O(1) IsDerivative checks.
	produced map[Fn]struct{}
}

// NewCollector returns an empty collector for one generation session.
func NewCollector[Fn comparable]() *Collector[Fn] {
	return &Collector[Fn]{
		byOrigin: make(map[Fn][]Entry[Fn]),
		produced: make(map[Fn]struct{}),
	}
}

// Add appends e to the entries recorded for its target declaration. Add
// performs no deduplication: callers are expected to consult Find before
// generating, so a duplicate entry indicates a caller bug and is stored
// as-is.
func (c *Collector[Fn]) Add(e Entry[Fn]) {
	c.byOrigin[e.Target] = append(c.byOrigin[e.Target], e)
	c.produced[e.Derived] = struct{}{}
}

// Find returns the first recorded entry satisfying req, in insertion order.
// The second return is false when the target has no entries or none match.
func (c *Collector[Fn]) Find(req Request[Fn]) (Entry[Fn], bool) {
	for _, e := range c.byOrigin[req.Target] {
		if e.Satisfies(req) {
			return e, true
		}
	}
	var zero Entry[Fn]
	return zero, false
}

// IsDerivative reports whether fn is itself the output of some recorded
// entry. The orchestrator uses this to avoid differentiating an already-
// synthesized derivative.
func (c *Collector[Fn]) IsDerivative(fn Fn) bool {
	_, ok := c.produced[fn]
	return ok
}

// Len returns the total number of recorded entries.
func (c *Collector[Fn]) Len() int {
	n := 0
	for _, entries := range c.byOrigin {
		n += len(entries)
	}
	return n
}

// alreadyExists reports whether the collection holds an entry representing
// the same derivative as e, regardless of which declaration it produced.
func (c *Collector[Fn]) alreadyExists(e Entry[Fn]) bool {
	_, ok := c.Find(e.request())
	return ok
}
