// Package editor is the narrow interface the presentation layer calls.
//
// An Editor owns one flow.Graph and one save slot. It adds the
// user-facing behavior around the graph primitives: default labels and
// placement for new nodes, layout application, save/restore, export and
// import, and a registry of inline editors. Each operation logs the
// notification the presentation layer would show and records metrics.
//
// An Editor is not safe for concurrent use.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/layout"
	"github.com/meikuraledutech/flow/metrics"
)

// DefaultSlotKey names the local save slot.
const DefaultSlotKey = "react-flow-data"

// Editor is the collaborator used by the presentation layer.
type Editor struct {
	graph  *flow.Graph
	slot   flow.SlotStore
	key    string
	logger *log.Logger
	now    func() time.Time
	place  func(flow.Variant) flow.Position
	edits  map[flow.Target]*flow.InlineEdit
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(e *Editor) { e.logger = l } }

// WithClock sets the time source used for timestamps and file names.
func WithClock(now func() time.Time) Option { return func(e *Editor) { e.now = now } }

// WithPlacement sets where AddNode puts new nodes.
func WithPlacement(fn func(flow.Variant) flow.Position) Option {
	return func(e *Editor) { e.place = fn }
}

// WithGraph uses g instead of a fresh empty graph.
func WithGraph(g *flow.Graph) Option { return func(e *Editor) { e.graph = g } }

// WithSlotKey overrides DefaultSlotKey.
func WithSlotKey(key string) Option { return func(e *Editor) { e.key = key } }

// New returns an Editor saving to slot.
func New(slot flow.SlotStore, opts ...Option) *Editor {
	e := &Editor{
		slot:   slot,
		key:    DefaultSlotKey,
		logger: log.Default(),
		now:    time.Now,
		place:  RandomPlacement,
		edits:  make(map[flow.Target]*flow.InlineEdit),
	}
	for _, o := range opts {
		o(e)
	}
	if e.graph == nil {
		e.graph = flow.New()
	}
	e.updateSize()
	return e
}

// RandomPlacement scatters nodes over x in [100, 600), y in [100, 400).
func RandomPlacement(flow.Variant) flow.Position {
	return flow.Position{X: rand.Float64()*500 + 100, Y: rand.Float64()*300 + 100}
}

// Graph returns the underlying store.
func (e *Editor) Graph() *flow.Graph { return e.graph }

// Snapshot returns the current nodes and edges for rendering.
func (e *Editor) Snapshot() ([]flow.Node, []flow.Edge) { return e.graph.Snapshot() }

// AddNode adds a node of variant v with its default label.
func (e *Editor) AddNode(v flow.Variant) flow.Node {
	n := e.graph.AddNode(v, e.place(v), v.DefaultLabel())
	e.done("add_node", nil)
	e.logger.Info("node added", "id", n.ID, "type", v)
	return n
}

// RemoveNode removes a node, leaving its edges in place.
func (e *Editor) RemoveNode(id string) {
	e.graph.RemoveNode(id)
	e.prune()
	e.done("remove_node", nil)
	e.logger.Debug("node removed", "id", id)
}

// RemoveNodeCascade removes a node and every edge that references it.
func (e *Editor) RemoveNodeCascade(id string) {
	n := e.graph.RemoveNodeCascade(id)
	e.prune()
	e.done("remove_node", nil)
	e.logger.Debug("node removed", "id", id, "edges", n)
}

// UpdateNode merges p into a node's payload.
func (e *Editor) UpdateNode(id string, p flow.NodePatch) {
	e.graph.UpdateNodeData(id, p)
	e.done("update_node", nil)
}

// Connect adds an edge between two existing nodes.
func (e *Editor) Connect(source, target, sourceHandle string) (flow.Edge, error) {
	ed, err := e.graph.Connect(source, target, sourceHandle)
	e.done("connect", err)
	if err != nil {
		e.logger.Warn("connection rejected", "source", source, "target", target, "err", err)
		return flow.Edge{}, err
	}
	e.logger.Debug("nodes connected", "id", ed.ID, "source", source, "target", target)
	return ed, nil
}

// RemoveEdge removes an edge.
func (e *Editor) RemoveEdge(id string) {
	e.graph.RemoveEdge(id)
	e.prune()
	e.done("remove_edge", nil)
	e.logger.Debug("edge removed", "id", id)
}

// UpdateEdge merges p into an edge's payload and style.
func (e *Editor) UpdateEdge(id string, p flow.EdgePatch) {
	e.graph.UpdateEdgeData(id, p)
	e.done("update_edge", nil)
}

// SetEdgeStyle changes the graph-wide edge style.
func (e *Editor) SetEdgeStyle(s flow.EdgeStyle) {
	e.graph.SetEdgeStyle(s)
	e.done("edge_style", nil)
	e.logger.Info("edge style changed", "path", s.PathType, "animated", s.Animated)
}

// Apply folds one UI tick of change descriptors into the graph.
func (e *Editor) Apply(b flow.Batch) flow.ApplyResult {
	res := e.graph.Apply(b)
	e.prune()
	e.done("apply_changes", nil)
	for _, r := range res.Rejected {
		e.logger.Warn("connection rejected", "source", r.Connection.Source, "target", r.Connection.Target, "err", r.Err)
	}
	return res
}

// ApplyLayout repositions every node under s.
func (e *Editor) ApplyLayout(s layout.Strategy) error {
	if _, err := layout.ParseStrategy(string(s)); err != nil {
		e.done("layout", err)
		return err
	}
	nodes, edges := e.graph.Snapshot()
	e.graph.SetPositionsAt(layout.Positions(nodes, edges, s))
	e.done("layout", nil)
	e.logger.Info("layout applied", "strategy", s, "nodes", len(nodes))
	return nil
}

// Document serializes the current graph.
func (e *Editor) Document() flow.Document {
	nodes, edges := e.graph.Snapshot()
	return flow.Serialize(nodes, edges, e.now())
}

// Save writes the current graph to the local save slot.
func (e *Editor) Save(ctx context.Context) error {
	b, err := flow.Marshal(e.Document())
	if err == nil {
		err = e.slot.Save(ctx, e.key, b)
	}
	e.done("save", err)
	if err != nil {
		e.logger.Error("save failed", "err", err)
		return err
	}
	metrics.DocumentBytes.WithLabelValues("save").Observe(float64(len(b)))
	e.logger.Info("flow saved", "key", e.key, "bytes", len(b))
	return nil
}

// Restore replaces the graph with the document in the local save slot.
// On any failure the graph is left untouched.
func (e *Editor) Restore(ctx context.Context) error {
	b, err := e.slot.Load(ctx, e.key)
	if err != nil {
		e.done("restore", err)
		return err
	}
	if err := e.replace(b); err != nil {
		e.done("restore", err)
		e.logger.Error("restore failed", "err", err)
		return err
	}
	e.done("restore", nil)
	e.logger.Info("flow restored", "key", e.key)
	return nil
}

// Export writes the pretty-printed document to w and returns the file name
// it should be offered under.
func (e *Editor) Export(w io.Writer) (string, error) {
	at := e.now()
	nodes, edges := e.graph.Snapshot()
	var buf bytes.Buffer
	if err := flow.WriteJSON(flow.Serialize(nodes, edges, at), &buf); err != nil {
		e.done("export", err)
		return "", err
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		err = fmt.Errorf("flow: write export: %w", err)
		e.done("export", err)
		return "", err
	}
	name := flow.ExportFileName(at)
	metrics.DocumentBytes.WithLabelValues("export").Observe(float64(n))
	e.done("export", nil)
	e.logger.Info("flow exported", "file", name)
	return name, nil
}

// Import reads a whole document from r and, if it parses, replaces the
// graph with it in one step. On failure the graph is left untouched.
func (e *Editor) Import(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		err = fmt.Errorf("flow: read import: %w", err)
		e.done("import", err)
		return err
	}
	return e.ImportBytes(buf.Bytes())
}

// ImportBytes is Import for contents already in memory.
func (e *Editor) ImportBytes(contents []byte) error {
	if err := e.replace(contents); err != nil {
		e.done("import", err)
		e.logger.Error("failed to load flow, check the file format", "err", err)
		return err
	}
	e.done("import", nil)
	n, m := e.graph.Len()
	e.logger.Info("flow imported", "nodes", n, "edges", m)
	return nil
}

// Clear removes every node and edge.
func (e *Editor) Clear() {
	e.graph.Clear()
	e.edits = make(map[flow.Target]*flow.InlineEdit)
	e.done("clear", nil)
	e.logger.Info("flow cleared")
}

// Validate reports problems in the current graph without changing it.
func (e *Editor) Validate() []flow.Issue {
	nodes, edges := e.graph.Snapshot()
	return flow.Validate(nodes, edges)
}

// Edit returns the inline editor for t, creating it in Viewing on first use.
// Only editors for existing entities are kept; for a missing entity it
// returns a detached editor that can never begin.
func (e *Editor) Edit(t flow.Target) *flow.InlineEdit {
	if ed, ok := e.edits[t]; ok {
		return ed
	}
	ed := flow.NewInlineEdit(e.graph, t)
	if e.exists(t) {
		e.edits[t] = ed
	}
	return ed
}

func (e *Editor) exists(t flow.Target) bool {
	var ok bool
	switch t.Kind {
	case flow.KindNode:
		_, ok = e.graph.Node(t.ID)
	case flow.KindEdge:
		_, ok = e.graph.Edge(t.ID)
	}
	return ok
}

// prune drops inline editors whose entity has been removed.
func (e *Editor) prune() {
	maps.DeleteFunc(e.edits, func(t flow.Target, _ *flow.InlineEdit) bool { return !e.exists(t) })
}

func (e *Editor) replace(contents []byte) error {
	nodes, edges, err := flow.Deserialize(contents)
	if err != nil {
		return err
	}
	e.graph.ReplaceAll(nodes, edges)
	e.edits = make(map[flow.Target]*flow.InlineEdit)
	return nil
}

func (e *Editor) done(op string, err error) {
	metrics.Observe(op, err)
	e.updateSize()
}

func (e *Editor) updateSize() {
	n, m := e.graph.Len()
	metrics.SetSize(n, m)
}
