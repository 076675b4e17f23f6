package flow

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Graph is the authoritative owner of the node and edge collections.
//
// Every mutation is synchronous and commits at most one new version.
// Removals and updates against an absent id are silent no-ops. Node removal
// does not cascade to incident edges; use RemoveNodeCascade for that.
//
// A Graph is not safe for concurrent use. Callers serving more than one
// goroutine must serialize access.
type Graph struct {
	nodes   []Node
	edges   []Edge
	style   EdgeStyle
	version uint64
	newID   func(prefix string) string
}

// Option configures a Graph.
type Option func(*Graph)

// WithIDFunc overrides id generation. fn receives the id prefix
// ("box", "circle", ..., "edge") and must return ids unique within the graph.
func WithIDFunc(fn func(prefix string) string) Option {
	return func(g *Graph) { g.newID = fn }
}

// WithEdgeStyle sets the initial graph-wide edge style.
func WithEdgeStyle(s EdgeStyle) Option {
	return func(g *Graph) { g.style = s }
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: []Node{},
		edges: []Edge{},
		style: DefaultEdgeStyle,
		newID: func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// WelcomeNodes is the content a fresh editing session starts with.
func WelcomeNodes() []Node {
	return []Node{{
		ID:       "1",
		Variant:  VariantBox,
		Position: Position{X: 250, Y: 100},
		Data:     NodeData{Label: "Welcome Node"},
	}}
}

// Version returns a counter bumped once per committed transition.
func (g *Graph) Version() uint64 { return g.version }

func (g *Graph) commit() { g.version++ }

// AddNode creates a node with a fresh id and appends it.
func (g *Graph) AddNode(v Variant, pos Position, label string) Node {
	n := Node{
		ID:       g.newID(string(v)),
		Variant:  v,
		Position: pos,
		Data:     NodeData{Label: label},
	}
	g.nodes = append(g.nodes, n)
	g.commit()
	return n
}

// RemoveNode removes the node with that id. Incident edges are kept.
func (g *Graph) RemoveNode(id string) {
	i := g.nodeIndex(id)
	if i < 0 {
		return
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	g.commit()
}

// RemoveNodeCascade removes the node and every edge referencing it as one
// transition. Returns the number of edges removed.
func (g *Graph) RemoveNodeCascade(id string) int {
	i := g.nodeIndex(id)
	if i < 0 {
		return 0
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	g.commit()
	return before - len(g.edges)
}

// RemoveEdge removes the edge with that id.
func (g *Graph) RemoveEdge(id string) {
	i := g.edgeIndex(id)
	if i < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	g.commit()
}

// Connect creates an edge from source to target using the graph-wide edge
// style. It returns ErrInvalidReference, leaving the edges untouched, if
// either endpoint is not a current node.
func (g *Graph) Connect(source, target, sourceHandle string) (Edge, error) {
	e, err := g.newEdge(g.nodes, source, target, sourceHandle)
	if err != nil {
		return Edge{}, err
	}
	g.edges = append(g.edges, e)
	g.commit()
	return e, nil
}

func (g *Graph) newEdge(nodes []Node, source, target, sourceHandle string) (Edge, error) {
	for _, id := range []string{source, target} {
		if indexOf(nodes, id) < 0 {
			return Edge{}, fmt.Errorf("connect %s -> %s: node %q: %w", source, target, id, ErrInvalidReference)
		}
	}
	return Edge{
		ID:           g.newID("edge"),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		PathType:     g.style.PathType,
		Animated:     g.style.Animated,
	}, nil
}

// UpdateNodeData merges p into the node's payload.
func (g *Graph) UpdateNodeData(id string, p NodePatch) {
	i := g.nodeIndex(id)
	if i < 0 {
		return
	}
	d := &g.nodes[i].Data
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.Condition != nil {
		d.Condition = *p.Condition
	}
	g.commit()
}

// UpdateEdgeData merges p into the edge's payload and style.
func (g *Graph) UpdateEdgeData(id string, p EdgePatch) {
	i := g.edgeIndex(id)
	if i < 0 {
		return
	}
	e := &g.edges[i]
	if p.Label != nil {
		e.Data.Label = *p.Label
	}
	if p.PathType != nil {
		e.PathType = *p.PathType
	}
	if p.Animated != nil {
		e.Animated = *p.Animated
	}
	g.commit()
}

// EdgeStyle returns the graph-wide default edge style.
func (g *Graph) EdgeStyle() EdgeStyle { return g.style }

// SetEdgeStyle changes the graph-wide default and restyles every existing
// edge to match.
func (g *Graph) SetEdgeStyle(s EdgeStyle) {
	g.style = s
	for i := range g.edges {
		g.edges[i].PathType = s.PathType
		g.edges[i].Animated = s.Animated
	}
	g.commit()
}

// SetPositions moves every node named in pos. Unknown ids are ignored.
func (g *Graph) SetPositions(pos map[string]Position) {
	for i := range g.nodes {
		if p, ok := pos[g.nodes[i].ID]; ok {
			g.nodes[i].Position = p
		}
	}
	g.commit()
}

// SetPositionsAt moves the node at index i to pos[i]. Nodes past the end
// of pos keep their position.
func (g *Graph) SetPositionsAt(pos []Position) {
	for i := range min(len(g.nodes), len(pos)) {
		g.nodes[i].Position = pos[i]
	}
	g.commit()
}

// ReplaceAll swaps both collections in one transition. The graph keeps
// its own copies; imported edges are not checked for dangling references.
func (g *Graph) ReplaceAll(nodes []Node, edges []Edge) {
	g.nodes = cloneOrEmpty(nodes)
	g.edges = cloneOrEmpty(edges)
	g.commit()
}

// Clear empties both collections.
func (g *Graph) Clear() { g.ReplaceAll(nil, nil) }

// Snapshot returns copies of the current collections in insertion order.
func (g *Graph) Snapshot() ([]Node, []Edge) {
	return cloneOrEmpty(g.nodes), cloneOrEmpty(g.edges)
}

// Node returns the node with that id.
func (g *Graph) Node(id string) (Node, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge returns the edge with that id.
func (g *Graph) Edge(id string) (Edge, bool) {
	i := g.edgeIndex(id)
	if i < 0 {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Len returns the node and edge counts.
func (g *Graph) Len() (nodes, edges int) { return len(g.nodes), len(g.edges) }

func (g *Graph) nodeIndex(id string) int { return indexOf(g.nodes, id) }

func (g *Graph) edgeIndex(id string) int {
	return slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
}

func indexOf(nodes []Node, id string) int {
	return slices.IndexFunc(nodes, func(n Node) bool { return n.ID == id })
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
