package flow

import "fmt"

// EditState is the mode of an inline editor.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Signal ends an edit. Every signal commits the buffer; there is no
// cancel. Escape commits just like Enter and blur.
type Signal string

const (
	SignalEnter  Signal = "enter"
	SignalEscape Signal = "escape"
	SignalBlur   Signal = "blur"
)

// ParseSignal maps a key or event name to a Signal.
func ParseSignal(s string) (Signal, error) {
	switch Signal(s) {
	case SignalEnter, SignalEscape, SignalBlur:
		return Signal(s), nil
	}
	return "", fmt.Errorf("flow: unknown edit signal %q", s)
}

// EntityKind says whether a Target is a node or an edge.
type EntityKind string

const (
	KindNode EntityKind = "node"
	KindEdge EntityKind = "edge"
)

// Target identifies the entity an inline editor belongs to.
type Target struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// InlineEdit is the per-entity view/edit toggle shared by node and edge
// label editors. It starts in Viewing and is never persisted.
type InlineEdit struct {
	graph  *Graph
	target Target
	state  EditState
	buffer map[Field]string
}

// NewInlineEdit returns a Viewing editor for target.
func NewInlineEdit(g *Graph, target Target) *InlineEdit {
	return &InlineEdit{graph: g, target: target, buffer: map[Field]string{}}
}

// Target returns the edited entity.
func (e *InlineEdit) Target() Target { return e.target }

// State returns the current mode.
func (e *InlineEdit) State() EditState { return e.state }

// Fields returns the editable fields of the target, or nil if it is gone.
func (e *InlineEdit) Fields() []Field {
	switch e.target.Kind {
	case KindNode:
		if n, ok := e.graph.Node(e.target.ID); ok {
			return n.Variant.Fields()
		}
	case KindEdge:
		if _, ok := e.graph.Edge(e.target.ID); ok {
			return []Field{FieldLabel}
		}
	}
	return nil
}

// CanBegin reports whether the entity currently offers an edit affordance.
// Nodes always do; edges only while selected.
func (e *InlineEdit) CanBegin() bool {
	switch e.target.Kind {
	case KindNode:
		_, ok := e.graph.Node(e.target.ID)
		return ok
	case KindEdge:
		ed, ok := e.graph.Edge(e.target.ID)
		return ok && ed.Selected
	}
	return false
}

// Begin moves Viewing -> Editing and seeds the buffer from the committed
// values. It returns false if no edit affordance is offered. Calling Begin
// while already editing keeps the current buffer.
func (e *InlineEdit) Begin() bool {
	if e.state == Editing {
		return true
	}
	if !e.CanBegin() {
		return false
	}
	e.buffer = e.committed()
	e.state = Editing
	return true
}

// Set writes value into the buffer. Ignored unless editing a known field.
func (e *InlineEdit) Set(f Field, value string) bool {
	if e.state != Editing {
		return false
	}
	if _, ok := e.buffer[f]; !ok {
		return false
	}
	e.buffer[f] = value
	return true
}

// Value returns the buffered value while editing, the committed value
// otherwise.
func (e *InlineEdit) Value(f Field) string {
	if e.state == Editing {
		return e.buffer[f]
	}
	return e.committed()[f]
}

// Signal handles an exit signal. In Editing it commits the whole buffer,
// empty strings included, and returns to Viewing. In Viewing it is ignored.
func (e *InlineEdit) Signal(s Signal) bool {
	if e.state != Editing {
		return false
	}
	e.state = Viewing
	switch e.target.Kind {
	case KindNode:
		var p NodePatch
		if v, ok := e.buffer[FieldLabel]; ok {
			p.Label = String(v)
		}
		if v, ok := e.buffer[FieldCondition]; ok {
			p.Condition = String(v)
		}
		e.graph.UpdateNodeData(e.target.ID, p)
	case KindEdge:
		e.graph.UpdateEdgeData(e.target.ID, EdgePatch{Label: String(e.buffer[FieldLabel])})
	}
	return true
}

func (e *InlineEdit) committed() map[Field]string {
	out := map[Field]string{}
	switch e.target.Kind {
	case KindNode:
		n, ok := e.graph.Node(e.target.ID)
		if !ok {
			return out
		}
		for _, f := range n.Variant.Fields() {
			switch f {
			case FieldLabel:
				out[f] = n.Data.Label
			case FieldCondition:
				out[f] = n.Data.Condition
			}
		}
	case KindEdge:
		if ed, ok := e.graph.Edge(e.target.ID); ok {
			out[FieldLabel] = ed.Data.Label
		}
	}
	return out
}
