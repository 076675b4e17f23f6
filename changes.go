package flow

import "slices"

// ChangeType names what a change descriptor does.
type ChangeType string

const (
	ChangePosition   ChangeType = "position"
	ChangeSelect     ChangeType = "select"
	ChangeRemove     ChangeType = "remove"
	ChangeDimensions ChangeType = "dimensions"
)

// NodeChange describes one node mutation produced by the presentation layer.
type NodeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Position *Position  `json:"position,omitempty"`
	Selected bool       `json:"selected,omitempty"`
	Width    float64    `json:"width,omitempty"`
	Height   float64    `json:"height,omitempty"`
}

// EdgeChange describes one edge mutation. Only select and remove apply.
type EdgeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Selected bool       `json:"selected,omitempty"`
}

// Connection is a new edge requested by a drag-to-connect gesture.
type Connection struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
}

// Batch is every descriptor produced by one UI tick.
type Batch struct {
	Nodes       []NodeChange `json:"nodes,omitempty"`
	Edges       []EdgeChange `json:"edges,omitempty"`
	Connections []Connection `json:"connections,omitempty"`
}

// Empty reports whether the batch carries no descriptors.
func (b Batch) Empty() bool {
	return len(b.Nodes) == 0 && len(b.Edges) == 0 && len(b.Connections) == 0
}

// Rejection records a connection that could not be created.
type Rejection struct {
	Connection Connection `json:"connection"`
	Err        error      `json:"-"`
	Reason     string     `json:"reason"`
}

// ApplyResult reports what a batch did.
type ApplyResult struct {
	Connected []Edge      `json:"connected"`
	Rejected  []Rejection `json:"rejected"`
	Version   uint64      `json:"version"`
}

// Apply folds a batch into a single transition. Node and edge descriptors
// apply in the order received; descriptors naming an id that is absent
// (including one removed earlier in the same batch) are no-ops.
// Connections are created after every other descriptor, against the node
// set as it stands at that point; connections with an absent endpoint are
// rejected and reported, the rest of the batch still commits.
func (g *Graph) Apply(b Batch) ApplyResult {
	res := ApplyResult{Connected: []Edge{}, Rejected: []Rejection{}}
	if b.Empty() {
		res.Version = g.version
		return res
	}

	nodes := slices.Clone(g.nodes)
	edges := slices.Clone(g.edges)

	for _, c := range b.Nodes {
		i := indexOf(nodes, c.ID)
		if i < 0 {
			continue
		}
		switch c.Type {
		case ChangePosition:
			if c.Position != nil {
				nodes[i].Position = *c.Position
			}
		case ChangeSelect:
			nodes[i].Selected = c.Selected
		case ChangeDimensions:
			nodes[i].Width = c.Width
			nodes[i].Height = c.Height
		case ChangeRemove:
			nodes = slices.Delete(nodes, i, i+1)
		}
	}

	for _, c := range b.Edges {
		i := slices.IndexFunc(edges, func(e Edge) bool { return e.ID == c.ID })
		if i < 0 {
			continue
		}
		switch c.Type {
		case ChangeSelect:
			edges[i].Selected = c.Selected
		case ChangeRemove:
			edges = slices.Delete(edges, i, i+1)
		}
	}

	for _, c := range b.Connections {
		e, err := g.newEdge(nodes, c.Source, c.Target, c.SourceHandle)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Connection: c, Err: err, Reason: err.Error()})
			continue
		}
		edges = append(edges, e)
		res.Connected = append(res.Connected, e)
	}

	g.nodes = cloneOrEmpty(nodes)
	g.edges = cloneOrEmpty(edges)
	g.commit()
	res.Version = g.version
	return res
}
