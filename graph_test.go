package flow_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
)

// seqIDs returns an id generator producing prefix-1, prefix-2, ...
func seqIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newGraph(t *testing.T) *flow.Graph {
	t.Helper()
	return flow.New(flow.WithIDFunc(seqIDs()))
}

func TestAddNode_IDsAreDistinct(t *testing.T) {
	g := flow.New()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		v := flow.Variants[i%len(flow.Variants)]
		n := g.AddNode(v, flow.Position{}, "n")
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
		assert.True(t, strings.HasPrefix(n.ID, string(v)+"-"), "id %s lacks variant prefix", n.ID)
	}
	nodes, _ := g.Len()
	assert.Equal(t, 100, nodes)
}

func TestAddNode_AppendsInOrder(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{X: 1, Y: 2}, "A")
	b := g.AddNode(flow.VariantConditional, flow.Position{X: 3, Y: 4}, "B")

	nodes, edges := g.Snapshot()
	require.Len(t, nodes, 2)
	assert.Empty(t, edges)
	assert.Equal(t, a, nodes[0])
	assert.Equal(t, b, nodes[1])
	assert.Equal(t, flow.NodeData{Label: "B"}, nodes[1].Data)
}

func TestRemoveNode_IsIdempotentAndKeepsEdges(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	b := g.AddNode(flow.VariantBox, flow.Position{}, "B")
	e, err := g.Connect(a.ID, b.ID, "")
	require.NoError(t, err)

	g.RemoveNode(a.ID)
	v := g.Version()
	g.RemoveNode(a.ID)
	assert.Equal(t, v, g.Version(), "second removal must not commit")

	nodes, edges := g.Snapshot()
	require.Len(t, nodes, 1)
	assert.Equal(t, b.ID, nodes[0].ID)
	require.Len(t, edges, 1, "node removal does not cascade")
	assert.Equal(t, e.ID, edges[0].ID)
}

func TestRemoveNodeCascade(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	b := g.AddNode(flow.VariantBox, flow.Position{}, "B")
	c := g.AddNode(flow.VariantBox, flow.Position{}, "C")
	_, err := g.Connect(a.ID, b.ID, "")
	require.NoError(t, err)
	_, err = g.Connect(c.ID, a.ID, "")
	require.NoError(t, err)
	keep, err := g.Connect(b.ID, c.ID, "")
	require.NoError(t, err)

	v := g.Version()
	assert.Equal(t, 2, g.RemoveNodeCascade(a.ID))
	assert.Equal(t, v+1, g.Version())

	_, edges := g.Snapshot()
	require.Len(t, edges, 1)
	assert.Equal(t, keep.ID, edges[0].ID)

	assert.Equal(t, 0, g.RemoveNodeCascade(a.ID))
}

func TestRemoveEdge(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	e, err := g.Connect(a.ID, a.ID, "")
	require.NoError(t, err)

	g.RemoveEdge(e.ID)
	g.RemoveEdge(e.ID)
	g.RemoveEdge("nope")

	_, edges := g.Snapshot()
	assert.Empty(t, edges)
}

func TestConnect_InvalidReference(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
	}{
		{name: "missing source", source: "ghost", target: "box-1"},
		{name: "missing target", source: "box-1", target: "ghost"},
		{name: "both missing", source: "ghost", target: "phantom"},
		{name: "empty ids", source: "", target: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t)
			a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
			require.Equal(t, "box-1", a.ID)
			_, err := g.Connect(a.ID, a.ID, "")
			require.NoError(t, err)
			_, before := g.Snapshot()
			v := g.Version()

			_, err = g.Connect(tt.source, tt.target, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, flow.ErrInvalidReference))

			_, after := g.Snapshot()
			assert.Equal(t, before, after)
			assert.Equal(t, v, g.Version())
		})
	}
}

func TestConnect_UsesGraphEdgeStyle(t *testing.T) {
	g := flow.New(flow.WithIDFunc(seqIDs()), flow.WithEdgeStyle(flow.EdgeStyle{PathType: flow.PathStep, Animated: true}))
	c := g.AddNode(flow.VariantConditional, flow.Position{}, "If")
	b := g.AddNode(flow.VariantBox, flow.Position{}, "B")

	e, err := g.Connect(c.ID, b.ID, flow.HandleTrue)
	require.NoError(t, err)
	assert.Equal(t, "edge-3", e.ID)
	assert.Equal(t, flow.PathStep, e.PathType)
	assert.True(t, e.Animated)
	assert.Equal(t, flow.HandleTrue, e.SourceHandle)
}

func TestConnect_DefaultStyleIsBezier(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	e, err := g.Connect(a.ID, a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, flow.PathBezier, e.PathType)
	assert.False(t, e.Animated)
}

func TestUpdateNodeData_Merges(t *testing.T) {
	g := newGraph(t)
	c := g.AddNode(flow.VariantConditional, flow.Position{}, "If Condition")

	g.UpdateNodeData(c.ID, flow.NodePatch{Condition: flow.String("x > 10")})
	n, ok := g.Node(c.ID)
	require.True(t, ok)
	assert.Equal(t, flow.NodeData{Label: "If Condition", Condition: "x > 10"}, n.Data)

	g.UpdateNodeData(c.ID, flow.NodePatch{Label: flow.String("Check")})
	n, _ = g.Node(c.ID)
	assert.Equal(t, flow.NodeData{Label: "Check", Condition: "x > 10"}, n.Data)

	v := g.Version()
	g.UpdateNodeData("ghost", flow.NodePatch{Label: flow.String("x")})
	assert.Equal(t, v, g.Version())
}

func TestUpdateEdgeData_Merges(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	e, err := g.Connect(a.ID, a.ID, "")
	require.NoError(t, err)

	straight := flow.PathStraight
	g.UpdateEdgeData(e.ID, flow.EdgePatch{Label: flow.String("yes"), PathType: &straight})
	got, ok := g.Edge(e.ID)
	require.True(t, ok)
	assert.Equal(t, "yes", got.Data.Label)
	assert.Equal(t, flow.PathStraight, got.PathType)
	assert.False(t, got.Animated)

	on := true
	g.UpdateEdgeData(e.ID, flow.EdgePatch{Animated: &on})
	got, _ = g.Edge(e.ID)
	assert.Equal(t, "yes", got.Data.Label)
	assert.True(t, got.Animated)

	g.UpdateEdgeData("ghost", flow.EdgePatch{Label: flow.String("x")})
}

func TestSetEdgeStyle_RestylesExistingAndNewEdges(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	b := g.AddNode(flow.VariantBox, flow.Position{}, "B")
	_, err := g.Connect(a.ID, b.ID, "")
	require.NoError(t, err)

	style := flow.EdgeStyle{PathType: flow.PathSmoothStep, Animated: true}
	g.SetEdgeStyle(style)
	assert.Equal(t, style, g.EdgeStyle())

	_, err = g.Connect(b.ID, a.ID, "")
	require.NoError(t, err)

	_, edges := g.Snapshot()
	for _, e := range edges {
		assert.Equal(t, flow.PathSmoothStep, e.PathType)
		assert.True(t, e.Animated)
	}
}

func TestSetPositions(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{X: 1, Y: 1}, "A")
	b := g.AddNode(flow.VariantBox, flow.Position{X: 2, Y: 2}, "B")

	g.SetPositions(map[string]flow.Position{a.ID: {X: 10, Y: 20}, "ghost": {X: 9, Y: 9}})

	got, _ := g.Node(a.ID)
	assert.Equal(t, flow.Position{X: 10, Y: 20}, got.Position)
	got, _ = g.Node(b.ID)
	assert.Equal(t, flow.Position{X: 2, Y: 2}, got.Position)
}

func TestSetPositionsAt(t *testing.T) {
	g := newGraph(t)
	g.ReplaceAll([]flow.Node{
		{ID: "x", Variant: flow.VariantBox},
		{ID: "x", Variant: flow.VariantBox},
		{ID: "y", Variant: flow.VariantBox, Position: flow.Position{X: 7, Y: 7}},
	}, nil)
	v := g.Version()

	g.SetPositionsAt([]flow.Position{{X: 0, Y: 100}, {X: 200, Y: 100}})

	nodes, _ := g.Snapshot()
	assert.Equal(t, flow.Position{X: 0, Y: 100}, nodes[0].Position)
	assert.Equal(t, flow.Position{X: 200, Y: 100}, nodes[1].Position)
	assert.Equal(t, flow.Position{X: 7, Y: 7}, nodes[2].Position, "nodes past the end keep their position")
	assert.Equal(t, v+1, g.Version())
}

func TestReplaceAll_OwnsItsCopies(t *testing.T) {
	g := newGraph(t)
	nodes := []flow.Node{{ID: "a", Variant: flow.VariantBox, Data: flow.NodeData{Label: "A"}}}
	edges := []flow.Edge{{ID: "e", Source: "a", Target: "gone"}}

	v := g.Version()
	g.ReplaceAll(nodes, edges)
	assert.Equal(t, v+1, g.Version())

	nodes[0].Data.Label = "mutated"
	snapNodes, snapEdges := g.Snapshot()
	assert.Equal(t, "A", snapNodes[0].Data.Label)
	require.Len(t, snapEdges, 1, "dangling imported edges are kept")

	snapNodes[0].Data.Label = "mutated again"
	n, _ := g.Node("a")
	assert.Equal(t, "A", n.Data.Label)
}

func TestClear(t *testing.T) {
	g := newGraph(t)
	a := g.AddNode(flow.VariantBox, flow.Position{}, "A")
	_, err := g.Connect(a.ID, a.ID, "")
	require.NoError(t, err)

	g.Clear()

	nodes, edges := g.Snapshot()
	assert.NotNil(t, nodes)
	assert.NotNil(t, edges)
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}

func TestWelcomeNodes(t *testing.T) {
	nodes := flow.WelcomeNodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Welcome Node", nodes[0].Data.Label)
	assert.Equal(t, flow.Position{X: 250, Y: 100}, nodes[0].Position)
}

func TestVariant(t *testing.T) {
	tests := []struct {
		variant flow.Variant
		valid   bool
		label   string
		fields  []flow.Field
	}{
		{flow.VariantBox, true, "Box Node", []flow.Field{flow.FieldLabel}},
		{flow.VariantCircle, true, "Circle Node", []flow.Field{flow.FieldLabel}},
		{flow.VariantDiamond, true, "Diamond Node", []flow.Field{flow.FieldLabel}},
		{flow.VariantConditional, true, "If Condition", []flow.Field{flow.FieldLabel, flow.FieldCondition}},
		{flow.Variant("hexagon"), false, "hexagon", []flow.Field{flow.FieldLabel}},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.variant.Valid())
			assert.Equal(t, tt.label, tt.variant.DefaultLabel())
			assert.Equal(t, tt.fields, tt.variant.Fields())
		})
	}
}
