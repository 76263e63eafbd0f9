package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// CSVExporter writes one row per sample: time_s followed by a column per series.
// Missing values are empty cells.
type CSVExporter struct{}

// Export writes the table as CSV
func (e *CSVExporter) Export(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"time_s"}
	for _, c := range t.Columns {
		h := c.Key
		if c.Unit != "" {
			h += " (" + c.Unit + ")"
		}
		header = append(header, h)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, ts := range t.Times {
		row[0] = strconv.FormatFloat(ts, 'f', -1, 64)
		for j, c := range t.Columns {
			row[j+1] = ""
			if i < len(c.Values) && !math.IsNaN(c.Values[i]) {
				row[j+1] = strconv.FormatFloat(c.Values[i], 'f', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
