package layout

import "github.com/meikuraledutech/flow"

// LayeredPositions places every node on the level given by its longest
// distance from a root (a node with no incoming edge). Within a level,
// nodes keep collection order: x = j*ColumnWidth, y = level*RowHeight.
//
// Edges whose endpoints are not in nodes, and self loops, are ignored.
// When only cycles remain, the earliest remaining node is treated as a
// root so every node is placed.
func LayeredPositions(nodes []flow.Node, edges []flow.Edge) []flow.Position {
	n := len(nodes)
	idx := make(map[string]int, n)
	for i, nd := range nodes {
		if _, dup := idx[nd.ID]; !dup {
			idx[nd.ID] = i
		}
	}

	indeg := make([]int, n)
	succ := make([][]int, n)
	for _, e := range edges {
		s, ok := idx[e.Source]
		if !ok {
			continue
		}
		t, ok := idx[e.Target]
		if !ok || s == t {
			continue
		}
		succ[s] = append(succ[s], t)
		indeg[t]++
	}

	level := make([]int, n)
	done := make([]bool, n)
	for range n {
		next := -1
		for i := range n {
			if !done[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			for i := range n {
				if !done[i] {
					next = i
					break
				}
			}
		}
		done[next] = true
		for _, t := range succ[next] {
			if done[t] {
				continue
			}
			indeg[t]--
			level[t] = max(level[t], level[next]+1)
		}
	}

	out := make([]flow.Position, n)
	column := map[int]int{}
	for i := range n {
		j := column[level[i]]
		column[level[i]] = j + 1
		out[i] = flow.Position{X: float64(j * ColumnWidth), Y: float64(level[i] * RowHeight)}
	}
	return out
}
