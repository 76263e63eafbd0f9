package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports tables in YAML format
type YAMLExporter struct{}

// Export exports a table to YAML format
func (e *YAMLExporter) Export(t *Table, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(t.document()); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
