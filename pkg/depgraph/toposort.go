package depgraph

import (
	"maps"
	"slices"
)

// sortFrame is one suspended depth-first visit during TopologicalSort.
type sortFrame struct {
	id   int
	nbrs []int
	next int
}

// TopologicalSort orders the nodes reachable from the source set so that
// for every edge a->b, a precedes b. With reverse set, b precedes a
// instead (the natural output of the postorder traversal).
//
// The traversal is depth-first from each source in ascending identifier
// order, appending a node once its subtree is exhausted. A node reached a
// second time is skipped, so on a cyclic subgraph the result is a valid
// order only for the DAG left after the skipped back-edges are discarded;
// no cycle detection is attempted. Nodes unreachable from every source are
// absent from the result even when active, which deliberately differs from
// Nodes().
func (g *Graph[T]) TopologicalSort(reverse bool) []T {
	res := make([]T, 0, len(g.nodes))
	visited := make(map[int]struct{}, len(g.nodes))

	for _, source := range g.sourceIDs() {
		if _, seen := visited[source]; seen {
			continue
		}
		visited[source] = struct{}{}
		stack := []sortFrame{{id: source, nbrs: g.neighborIDs(source)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.nbrs) {
				dest := top.nbrs[top.next]
				top.next++
				if _, seen := visited[dest]; !seen {
					visited[dest] = struct{}{}
					stack = append(stack, sortFrame{id: dest, nbrs: g.neighborIDs(dest)})
				}
				continue
			}
			res = append(res, g.nodes[top.id])
			stack = stack[:len(stack)-1]
		}
	}

	if !reverse {
		slices.Reverse(res)
	}
	return res
}

// sourceIDs returns the source identifiers in ascending order. The set may
// include soft-deleted nodes; callers tolerate them.
func (g *Graph[T]) sourceIDs() []int {
	return slices.Sorted(maps.Keys(g.sources))
}

// neighborIDs returns id's outgoing destinations in ascending order.
func (g *Graph[T]) neighborIDs(id int) []int {
	return slices.Sorted(maps.Keys(g.outgoing[id]))
}
