// Package hover resolves the values under the cursor: for a time coordinate it finds the
// nearest sample of every plotted track and produces a readout grouped by related metric.
package hover

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Track is one plotted series as seen by the readout.
type Track struct {
	Key   string
	Name  string
	Unit  string
	Color string // "#rrggbb"
	// Group overrides the grouping key; empty means GroupKey(Key).
	Group  string
	Times  []float64
	Values []float64
}

// Entry is one line of a readout.
type Entry struct {
	Key   string
	Name  string
	Unit  string
	Color string
	Index int // sample index, -1 when the track is empty
	Time  float64
	Value float64 // NaN when missing
}

// Readout is the result of a lookup at one time coordinate.
type Readout struct {
	T       float64
	Entries []Entry
}

// NearestIndex returns the index of the time closest to t; on a tie the earlier sample
// wins. times must be ascending. It returns -1 for an empty slice or NaN t.
func NearestIndex(times []float64, t float64) int {
	n := len(times)
	if n == 0 || math.IsNaN(t) {
		return -1
	}
	i := sort.SearchFloat64s(times, t) // first index with times[i] >= t
	if i == 0 {
		return 0
	}
	if i == n {
		return n - 1
	}
	if t-times[i-1] <= times[i]-t {
		return i - 1
	}
	return i
}

// Lookup finds each track's nearest sample to t. Entries are ordered so related tracks
// (a measured value and its setpoint) are adjacent; otherwise input order is kept.
func Lookup(tracks []Track, t float64) Readout {
	ordered := Grouped(tracks)
	out := Readout{T: t, Entries: make([]Entry, 0, len(ordered))}
	for _, tr := range ordered {
		e := Entry{Key: tr.Key, Name: tr.Name, Unit: tr.Unit, Color: tr.Color, Index: -1, Time: math.NaN(), Value: math.NaN()}
		if idx := NearestIndex(tr.Times, t); idx >= 0 {
			e.Index = idx
			e.Time = tr.Times[idx]
			if idx < len(tr.Values) {
				e.Value = tr.Values[idx]
			}
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

// Grouped returns tracks reordered by group: each group appears where its first member
// did, members keep their relative order.
func Grouped(tracks []Track) []Track {
	var order []string
	byGroup := map[string][]Track{}
	for _, tr := range tracks {
		g := tr.Group
		if g == "" {
			g = GroupKey(tr.Key)
		}
		if _, seen := byGroup[g]; !seen {
			order = append(order, g)
		}
		byGroup[g] = append(byGroup[g], tr)
	}
	out := make([]Track, 0, len(tracks))
	for _, g := range order {
		out = append(out, byGroup[g]...)
	}
	return out
}

// baseOf links setpoint keys to the metric they target.
var baseOf = map[string]string{
	"shot.setpoints.pressure": "shot.pressure",
	"shot.setpoints.flow":     "shot.flow",
	"shot.setpoints.power":    "sensors.motor_power",
}

// GroupKey maps a series key to the key of its group. Known setpoints map to their measured
// metric; otherwise a "_setpoint"/"_goal" suffix or a "setpoints." segment is stripped.
func GroupKey(key string) string {
	if b, ok := baseOf[key]; ok {
		return b
	}
	for _, suf := range []string{"_setpoint", "_goal"} {
		if strings.HasSuffix(key, suf) {
			return strings.TrimSuffix(key, suf)
		}
	}
	if strings.Contains(key, "setpoints.") {
		return strings.Replace(key, "setpoints.", "", 1)
	}
	if strings.Contains(key, "goal_") {
		return strings.Replace(key, "goal_", "", 1)
	}
	return key
}

// FormatValue renders a value with its unit using two decimals; NaN becomes "N/A".
func FormatValue(v float64, unit string) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	if unit == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}

// Lines renders the readout as plain text, one entry per line after the time header.
func (r Readout) Lines() []string {
	lines := []string{fmt.Sprintf("Time: %.2fs", r.T)}
	for _, e := range r.Entries {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Name, FormatValue(e.Value, e.Unit)))
	}
	return lines
}
