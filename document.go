package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// TimestampLayout is the ISO-8601 form used for document timestamps
// (millisecond precision, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the portable form of a graph.
type Document struct {
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	Timestamp string `json:"timestamp"`
}

// wire distinguishes a missing (or null) collection from an empty one.
type wire struct {
	Nodes     *[]Node `json:"nodes"`
	Edges     *[]Edge `json:"edges"`
	Timestamp string  `json:"timestamp"`
}

// Serialize captures the collections plus a generation timestamp.
func Serialize(nodes []Node, edges []Edge, at time.Time) Document {
	return Document{
		Nodes:     cloneOrEmpty(nodes),
		Edges:     cloneOrEmpty(edges),
		Timestamp: at.UTC().Format(TimestampLayout),
	}
}

// Deserialize parses data into node and edge collections.
//
// It returns ErrMalformedDocument if data is not a JSON object of the
// expected shape, or if "nodes" or "edges" is missing. Individual entities
// are not validated: unknown variants and dangling edge endpoints pass
// through unchanged. Use Validate for a report.
func Deserialize(data []byte) ([]Node, []Edge, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if w.Nodes == nil {
		return nil, nil, fmt.Errorf("%w: missing nodes", ErrMalformedDocument)
	}
	if w.Edges == nil {
		return nil, nil, fmt.Errorf("%w: missing edges", ErrMalformedDocument)
	}
	return *w.Nodes, *w.Edges, nil
}

// Marshal encodes doc compactly, as written to the save slot.
func Marshal(doc Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("flow: encode document: %w", err)
	}
	return b, nil
}

// WriteJSON encodes doc pretty-printed with two-space indentation, as
// offered for export.
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("flow: encode document: %w", err)
	}
	return nil
}

// ReadJSON reads all of r and deserializes it. Nothing is returned until
// the whole input has been read.
func ReadJSON(r io.Reader) ([]Node, []Edge, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("flow: read document: %w", err)
	}
	return Deserialize(buf.Bytes())
}

// ExportFileName returns the download name for an export made at t,
// e.g. "flow-2024-05-01.json".
func ExportFileName(t time.Time) string {
	return "flow-" + t.UTC().Format(time.DateOnly) + ".json"
}
