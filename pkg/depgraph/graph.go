// Package depgraph provides a generic labeled directed graph used to order
// derivative-generation work. Nodes are soft-deleted: an identifier, once
// assigned, is never reused for the lifetime of a Graph, which lets callers
// distinguish "never existed" from "removed" when reporting diagnostics.
package depgraph

// nodeInfo tracks the arena slot and liveness of one label.
type nodeInfo struct {
	id     int
	active bool
}

// Graph is a mutable directed graph over any comparable label type.
//
// Nodes live in a dense arena indexed by a sequential identifier; the
// identifier doubles as the insertion-order index. Adjacency is mirrored:
// an edge a->b is stored in a's outgoing set and b's incoming set. A subset
// of nodes is marked as sources; sources seed reachability pruning and
// topological ordering, and the source set only ever grows.
//
// A Graph is not safe for concurrent use. It is built and consumed within
// one scheduling pass.
type Graph[T comparable] struct {
	nodes []T
	info  map[T]nodeInfo

	outgoing map[int]map[int]struct{}
	incoming map[int]map[int]struct{}

	sources map[int]struct{}
}

// New returns an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		info:     make(map[T]nodeInfo),
		outgoing: make(map[int]map[int]struct{}),
		incoming: make(map[int]map[int]struct{}),
		sources:  make(map[int]struct{}),
	}
}

// AddNode inserts label as a non-source node. A label seen for the first
// time gets the next sequential identifier; a soft-deleted label is
// reactivated in place with its identifier unchanged. Adding an existing
// active label is a no-op; in particular it does not demote a source.
func (g *Graph[T]) AddNode(label T) {
	g.addNode(label, false)
}

// AddSource inserts label and marks it as a traversal root. Marking is
// idempotent and monotonic: a node once marked stays a source for the
// lifetime of the graph, even across soft deletion.
func (g *Graph[T]) AddSource(label T) {
	g.addNode(label, true)
}

func (g *Graph[T]) addNode(label T, isSource bool) {
	ni, seen := g.info[label]
	if !seen {
		ni = nodeInfo{id: len(g.nodes), active: true}
		g.nodes = append(g.nodes, label)
		g.info[label] = ni
		g.outgoing[ni.id] = make(map[int]struct{})
		g.incoming[ni.id] = make(map[int]struct{})
	} else if !ni.active {
		ni.active = true
		g.info[label] = ni
	}
	if isSource {
		g.sources[ni.id] = struct{}{}
	}
}

// AddEdge inserts the directed edge src->dest, creating either endpoint as
// a non-source node if it is unknown. Edges have set semantics: inserting
// the same pair twice changes nothing.
func (g *Graph[T]) AddEdge(src, dest T) {
	g.addNode(src, false)
	g.addNode(dest, false)
	srcID := g.info[src].id
	destID := g.info[dest].id
	g.outgoing[srcID][destID] = struct{}{}
	g.incoming[destID][srcID] = struct{}{}
}

// RemoveNode soft-deletes label: the node is marked inactive and every edge
// touching it is severed in both directions. The identifier and label slot
// are retained. Unknown labels are ignored.
func (g *Graph[T]) RemoveNode(label T) {
	ni, seen := g.info[label]
	if !seen {
		return
	}
	ni.active = false
	g.info[label] = ni
	g.severEdges(ni.id)
}

// severEdges clears both adjacency sets of id and the mirrored entries on
// its neighbors.
func (g *Graph[T]) severEdges(id int) {
	for destID := range g.outgoing[id] {
		delete(g.incoming[destID], id)
	}
	clear(g.outgoing[id])
	for srcID := range g.incoming[id] {
		delete(g.outgoing[srcID], id)
	}
	clear(g.incoming[id])
}

// Nodes returns the active labels in their original insertion order.
func (g *Graph[T]) Nodes() []T {
	res := make([]T, 0, len(g.nodes))
	for _, label := range g.nodes {
		if g.info[label].active {
			res = append(res, label)
		}
	}
	return res
}

// Len returns the number of active nodes.
func (g *Graph[T]) Len() int {
	n := 0
	for _, label := range g.nodes {
		if g.info[label].active {
			n++
		}
	}
	return n
}

// Contains reports whether label is an active node.
func (g *Graph[T]) Contains(label T) bool {
	ni, seen := g.info[label]
	return seen && ni.active
}

// IsConnected reports whether the direct edge src->dest exists. It tests
// adjacency, not reachability. Unknown labels yield false rather than an
// error.
func (g *Graph[T]) IsConnected(src, dest T) bool {
	srcInfo, ok := g.info[src]
	if !ok {
		return false
	}
	destInfo, ok := g.info[dest]
	if !ok {
		return false
	}
	_, connected := g.outgoing[srcInfo.id][destInfo.id]
	return connected
}
