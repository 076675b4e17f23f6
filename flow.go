package flow

// Variant identifies the kind of a node. It is fixed at creation.
type Variant string

const (
	VariantBox         Variant = "box"
	VariantCircle      Variant = "circle"
	VariantDiamond     Variant = "diamond"
	VariantConditional Variant = "conditional"
)

// Variants lists every known node variant in menu order.
var Variants = []Variant{VariantBox, VariantCircle, VariantDiamond, VariantConditional}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantBox, VariantCircle, VariantDiamond, VariantConditional:
		return true
	}
	return false
}

// DefaultLabel is the label a freshly added node of this variant starts with.
func (v Variant) DefaultLabel() string {
	switch v {
	case VariantBox:
		return "Box Node"
	case VariantCircle:
		return "Circle Node"
	case VariantDiamond:
		return "Diamond Node"
	case VariantConditional:
		return "If Condition"
	}
	return string(v)
}

// Fields returns the inline-editable payload fields of the variant.
func (v Variant) Fields() []Field {
	if v == VariantConditional {
		return []Field{FieldLabel, FieldCondition}
	}
	return []Field{FieldLabel}
}

// Field names an editable payload field.
type Field string

const (
	FieldLabel     Field = "label"
	FieldCondition Field = "condition"
)

// Handle discriminates the two outputs of a conditional node.
const (
	HandleTrue  = "true"
	HandleFalse = "false"
)

// PathType is the rendering style of an edge.
type PathType string

const (
	PathBezier     PathType = "bezier"
	PathStraight   PathType = "straight"
	PathStep       PathType = "step"
	PathSmoothStep PathType = "smoothstep"
)

// Valid reports whether p is one of the known path types.
func (p PathType) Valid() bool {
	switch p {
	case PathBezier, PathStraight, PathStep, PathSmoothStep:
		return true
	}
	return false
}

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload of a node. Condition is only meaningful for
// conditional nodes.
type NodeData struct {
	Label     string `json:"label"`
	Condition string `json:"condition,omitempty"`
}

// Node is a positioned, typed vertex.
// Width and Height are zero until the presentation layer reports a size.
type Node struct {
	ID       string   `json:"id"`
	Variant  Variant  `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Selected bool     `json:"selected,omitempty"`
}

// EdgeData is the payload of an edge.
type EdgeData struct {
	Label string `json:"label,omitempty"`
}

// Edge is a directed connection between two nodes.
// SourceHandle is set for edges leaving a conditional node ("true"/"false").
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	PathType     PathType `json:"pathType"`
	Animated     bool     `json:"animated"`
	Data         EdgeData `json:"data"`
	Selected     bool     `json:"selected,omitempty"`
}

// NodePatch is a partial update of a node payload. Nil fields are left alone.
type NodePatch struct {
	Label     *string `json:"label,omitempty"`
	Condition *string `json:"condition,omitempty"`
}

// EdgePatch is a partial update of an edge payload and style.
type EdgePatch struct {
	Label    *string   `json:"label,omitempty"`
	PathType *PathType `json:"pathType,omitempty"`
	Animated *bool     `json:"animated,omitempty"`
}

// EdgeStyle is the graph-wide default applied to newly connected edges.
type EdgeStyle struct {
	PathType PathType `json:"pathType"`
	Animated bool     `json:"animated"`
}

// DefaultEdgeStyle is the style a new graph starts with.
var DefaultEdgeStyle = EdgeStyle{PathType: PathBezier}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }
