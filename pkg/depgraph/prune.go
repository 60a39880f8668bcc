package depgraph

// RemoveNonReachable soft-deletes every active node that is not forward-
// reachable from the source set, following outgoing edges with an explicit
// stack. Returns the number of nodes removed.
//
// An empty source set makes the reachable set empty, so every active node
// is removed. Stale (soft-deleted) sources still seed the traversal; their
// adjacency sets are empty, so they contribute nothing beyond themselves.
func (g *Graph[T]) RemoveNonReachable() int {
	visited := make(map[int]struct{}, len(g.nodes))
	stack := make([]int, 0, len(g.sources))
	for _, id := range g.sourceIDs() {
		stack = append(stack, id)
		visited[id] = struct{}{}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, destID := range g.neighborIDs(id) {
			if _, seen := visited[destID]; !seen {
				stack = append(stack, destID)
				visited[destID] = struct{}{}
			}
		}
	}

	removed := 0
	for _, label := range g.nodes {
		ni := g.info[label]
		if !ni.active {
			continue
		}
		if _, seen := visited[ni.id]; !seen {
			g.RemoveNode(label)
			removed++
		}
	}
	return removed
}
