package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports tables in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a table to JSON format
func (e *JSONExporter) Export(t *Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(t.document())
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
