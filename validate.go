package flow

import "fmt"

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding of Validate.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	ID       string   `json:"id,omitempty"`
	Message  string   `json:"message"`
}

// Issue codes.
const (
	IssueDuplicateNodeID = "duplicate_node_id"
	IssueDuplicateEdgeID = "duplicate_edge_id"
	IssueDanglingEdge    = "dangling_edge"
	IssueUnknownVariant  = "unknown_variant"
	IssueUnknownPathType = "unknown_path_type"
	IssueBadHandle       = "bad_source_handle"
	IssueDuplicateBranch = "duplicate_branch"
	IssueCycle           = "cycle"
)

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate inspects a node/edge collection without changing it. Imports
// accept whatever this reports; it exists for callers that want stricter
// checks layered on top.
func Validate(nodes []Node, edges []Edge) []Issue {
	issues := []Issue{}
	add := func(sev Severity, code, id, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Code: code, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	variants := make(map[string]Variant, len(nodes))
	for _, n := range nodes {
		if _, dup := variants[n.ID]; dup {
			add(SeverityError, IssueDuplicateNodeID, n.ID, "node id %q appears more than once", n.ID)
		}
		variants[n.ID] = n.Variant
		if !n.Variant.Valid() {
			add(SeverityWarning, IssueUnknownVariant, n.ID, "node %q has unknown type %q", n.ID, n.Variant)
		}
	}

	edgeIDs := make(map[string]bool, len(edges))
	branches := make(map[string]string)
	for _, e := range edges {
		if edgeIDs[e.ID] {
			add(SeverityError, IssueDuplicateEdgeID, e.ID, "edge id %q appears more than once", e.ID)
		}
		edgeIDs[e.ID] = true

		if _, ok := variants[e.Source]; !ok {
			add(SeverityError, IssueDanglingEdge, e.ID, "edge %q source %q is not a node", e.ID, e.Source)
		}
		if _, ok := variants[e.Target]; !ok {
			add(SeverityError, IssueDanglingEdge, e.ID, "edge %q target %q is not a node", e.ID, e.Target)
		}
		if e.PathType != "" && !e.PathType.Valid() {
			add(SeverityWarning, IssueUnknownPathType, e.ID, "edge %q has unknown path type %q", e.ID, e.PathType)
		}

		if variants[e.Source] != VariantConditional {
			continue
		}
		switch e.SourceHandle {
		case HandleTrue, HandleFalse:
			key := e.Source + "\x00" + e.SourceHandle
			if prev, ok := branches[key]; ok {
				add(SeverityWarning, IssueDuplicateBranch, e.ID,
					"conditional %q already has a %s branch (edge %q)", e.Source, e.SourceHandle, prev)
			} else {
				branches[key] = e.ID
			}
		default:
			add(SeverityWarning, IssueBadHandle, e.ID,
				"edge %q leaves conditional %q without a true/false handle", e.ID, e.Source)
		}
	}

	if id, ok := findCycle(nodes, edges); ok {
		add(SeverityInfo, IssueCycle, id, "node %q is part of a cycle", id)
	}
	return issues
}

// findCycle runs a three-color DFS in node order and returns a node on the
// first cycle found.
func findCycle(nodes []Node, edges []Edge) (string, bool) {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(nodes))
	var hit string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				hit = next
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, n := range nodes {
		if state[n.ID] == unvisited && dfs(n.ID) {
			return hit, true
		}
	}
	return "", false
}
