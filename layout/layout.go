// Package layout computes node positions for a flow graph.
//
// Every function here is pure: it reads nodes (and, for Layered, edges) and
// returns one position per node, aligned with the input order. Nothing but
// positions is ever computed; payloads and edges are left to the caller.
//
// The horizontal, vertical and tree strategies depend only on each node's
// index in the collection. Tree is a zig-zag grid of three nodes per level
// and does not look at edges. Layered is the topology-aware alternative.
package layout

import (
	"errors"
	"fmt"

	"github.com/meikuraledutech/flow"
)

// Strategy names a layout algorithm.
type Strategy string

const (
	Horizontal Strategy = "horizontal"
	Vertical   Strategy = "vertical"
	Tree       Strategy = "tree"
	Layered    Strategy = "layered"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{Horizontal, Vertical, Tree, Layered}

// Spacing used by every strategy.
const (
	ColumnWidth  = 200
	RowHeight    = 120
	HorizontalY  = 100
	VerticalX    = 200
	TreeFanout   = 3
	TreeOddShift = 100
)

// ErrUnknownStrategy is returned by ParseStrategy.
var ErrUnknownStrategy = errors.New("layout: unknown strategy")

// ParseStrategy maps a name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStrategy, s)
}

// Compute returns the index-based position of every node under s.
// Unknown strategies, and Layered (which needs edges), leave positions as
// they are.
func Compute(nodes []flow.Node, s Strategy) []flow.Position {
	out := make([]flow.Position, len(nodes))
	for i, n := range nodes {
		switch s {
		case Horizontal:
			out[i] = flow.Position{X: float64(i * ColumnWidth), Y: HorizontalY}
		case Vertical:
			out[i] = flow.Position{X: VerticalX, Y: float64(i * RowHeight)}
		case Tree:
			out[i] = treePosition(i)
		default:
			out[i] = n.Position
		}
	}
	return out
}

func treePosition(i int) flow.Position {
	level, j := i/TreeFanout, i%TreeFanout
	x := j * ColumnWidth
	if level%2 == 1 {
		x += TreeOddShift
	}
	return flow.Position{X: float64(x), Y: float64(level * RowHeight)}
}

// Positions dispatches to Compute or, for Layered, to LayeredPositions.
func Positions(nodes []flow.Node, edges []flow.Edge, s Strategy) []flow.Position {
	if s == Layered {
		return LayeredPositions(nodes, edges)
	}
	return Compute(nodes, s)
}
