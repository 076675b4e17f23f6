package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
)

func makeNodes(n int) []flow.Node {
	nodes := make([]flow.Node, n)
	for i := range nodes {
		nodes[i] = flow.Node{
			ID:       fmt.Sprintf("n%d", i),
			Variant:  flow.VariantBox,
			Position: flow.Position{X: float64(i*7 + 3), Y: float64(i*11 + 5)},
			Data:     flow.NodeData{Label: fmt.Sprint(i)},
		}
	}
	return nodes
}

func pos(x, y float64) flow.Position { return flow.Position{X: x, Y: y} }

func TestCompute_Horizontal(t *testing.T) {
	nodes := makeNodes(4)
	got := Compute(nodes, Horizontal)
	assert.Equal(t, []flow.Position{pos(0, 100), pos(200, 100), pos(400, 100), pos(600, 100)}, got)
	assert.Equal(t, got, Compute(nodes, Horizontal), "layout is deterministic")
}

func TestCompute_Vertical(t *testing.T) {
	got := Compute(makeNodes(3), Vertical)
	assert.Equal(t, []flow.Position{pos(200, 0), pos(200, 120), pos(200, 240)}, got)
}

func TestCompute_TreeSevenNodes(t *testing.T) {
	got := Compute(makeNodes(7), Tree)
	want := []flow.Position{
		pos(0, 0), pos(200, 0), pos(400, 0),
		pos(100, 120), pos(300, 120), pos(500, 120),
		pos(0, 240),
	}
	assert.Equal(t, want, got)
}

func TestCompute_TreeIgnoresEdges(t *testing.T) {
	nodes := makeNodes(4)
	edges := []flow.Edge{{ID: "e", Source: "n3", Target: "n0"}}
	assert.Equal(t, Compute(nodes, Tree), Positions(nodes, edges, Tree))
}

func TestCompute_ZeroNodes(t *testing.T) {
	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			assert.Empty(t, Positions(nil, nil, s))
			assert.Empty(t, Positions([]flow.Node{}, []flow.Edge{}, s))
		})
	}
}

func TestCompute_UnknownStrategyKeepsPositions(t *testing.T) {
	nodes := makeNodes(3)
	got := Compute(nodes, Strategy("spiral"))
	for i, n := range nodes {
		assert.Equal(t, n.Position, got[i])
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	nodes := makeNodes(5)
	before := append([]flow.Node(nil), nodes...)
	Compute(nodes, Tree)
	LayeredPositions(nodes, []flow.Edge{{Source: "n0", Target: "n1"}})
	assert.Equal(t, before, nodes)
}

func TestLayeredPositions(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]string
		want  []flow.Position
	}{
		{
			name: "no edges puts everything on level zero",
			n:    3,
			want: []flow.Position{pos(0, 0), pos(200, 0), pos(400, 0)},
		},
		{
			name:  "diamond",
			n:     4,
			edges: [][2]string{{"n0", "n1"}, {"n0", "n2"}, {"n1", "n3"}, {"n2", "n3"}},
			want:  []flow.Position{pos(0, 0), pos(0, 120), pos(200, 120), pos(0, 240)},
		},
		{
			name:  "longest path decides level",
			n:     3,
			edges: [][2]string{{"n0", "n2"}, {"n0", "n1"}, {"n1", "n2"}},
			want:  []flow.Position{pos(0, 0), pos(0, 120), pos(0, 240)},
		},
		{
			name:  "root after its child in collection order",
			n:     2,
			edges: [][2]string{{"n1", "n0"}},
			want:  []flow.Position{pos(0, 120), pos(0, 0)},
		},
		{
			name:  "pure cycle still places every node",
			n:     3,
			edges: [][2]string{{"n0", "n1"}, {"n1", "n2"}, {"n2", "n0"}},
			want:  []flow.Position{pos(0, 0), pos(0, 120), pos(0, 240)},
		},
		{
			name:  "dangling edges and self loops are ignored",
			n:     2,
			edges: [][2]string{{"n0", "ghost"}, {"ghost", "n1"}, {"n1", "n1"}},
			want:  []flow.Position{pos(0, 0), pos(200, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var edges []flow.Edge
			for i, e := range tt.edges {
				edges = append(edges, flow.Edge{ID: fmt.Sprint(i), Source: e[0], Target: e[1]})
			}
			got := Positions(makeNodes(tt.n), edges, Layered)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("spiral")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}
