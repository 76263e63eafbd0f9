package hover

import (
	"fmt"
	"math"
)

// Row pairs the values of one metric in two shots.
type Row struct {
	Key   string
	Name  string
	Unit  string
	Color string
	A, B  float64 // NaN when missing
}

// CompareReadout is the side-by-side readout for two shots.
type CompareReadout struct {
	T            float64
	NameA, NameB string
	Rows         []Row
}

// Compare looks t up independently in both shots' tracks. Rows follow a's grouped order;
// metrics only present in b are appended after them.
func Compare(nameA string, a []Track, nameB string, b []Track, t float64) CompareReadout {
	ra, rb := Lookup(a, t), Lookup(b, t)
	out := CompareReadout{T: t, NameA: nameA, NameB: nameB}
	idx := map[string]int{}
	for _, e := range ra.Entries {
		idx[e.Key] = len(out.Rows)
		out.Rows = append(out.Rows, Row{Key: e.Key, Name: e.Name, Unit: e.Unit, Color: e.Color, A: e.Value, B: math.NaN()})
	}
	for _, e := range rb.Entries {
		if i, ok := idx[e.Key]; ok {
			out.Rows[i].B = e.Value
			continue
		}
		out.Rows = append(out.Rows, Row{Key: e.Key, Name: e.Name, Unit: e.Unit, Color: e.Color, A: math.NaN(), B: e.Value})
	}
	return out
}

// Lines renders "Name: a (shotA) | b (shotB)" per metric after the time header.
func (c CompareReadout) Lines() []string {
	lines := []string{fmt.Sprintf("Time: %.2fs", c.T)}
	for _, r := range c.Rows {
		lines = append(lines, fmt.Sprintf("%s: %s (%s) | %s (%s)",
			r.Name, FormatValue(r.A, r.Unit), c.NameA, FormatValue(r.B, r.Unit), c.NameB))
	}
	return lines
}
