package depgraph

import (
	"fmt"
	"io"
)

// Dump writes a human-readable snapshot of the graph to w: first the active
// nodes with their identifiers and source markers, then the surviving edges
// as "src -> dest" identifier pairs in ascending order. format renders a
// label for display; identifiers are stable across soft deletion, so dumps
// taken before and after pruning line up.
func (g *Graph[T]) Dump(w io.Writer, format func(T) string) {
	for _, label := range g.nodes {
		ni := g.info[label]
		if !ni.active {
			continue
		}
		if _, isSource := g.sources[ni.id]; isSource {
			fmt.Fprintf(w, "%s: #%d (source)\n", format(label), ni.id)
		} else {
			fmt.Fprintf(w, "%s: #%d\n", format(label), ni.id)
		}
	}
	for id := range g.nodes {
		if !g.info[g.nodes[id]].active {
			continue
		}
		for _, destID := range g.neighborIDs(id) {
			fmt.Fprintf(w, "%d -> %d\n", id, destID)
		}
	}
}
