// Package export writes the extracted series of a shot as CSV, JSON or YAML tables.
package export

import (
	"math"
	"time"

	"github.com/iafilius/ShotPlot/src/shot"
)

// Column is one extracted series.
type Column struct {
	Key    string
	Name   string
	Unit   string
	Values []float64 // NaN where the sample lacks the metric
}

// Table is the time axis of a shot plus its selected series, index aligned.
type Table struct {
	Source  string
	Profile string
	Start   time.Time
	Times   []float64
	Columns []Column
}

// BuildTable extracts keys from s. With no keys every catalog field the shot carries is used.
// Keys whose series is entirely missing are dropped.
func BuildTable(s *shot.Shot, keys []string) *Table {
	if len(keys) == 0 {
		for _, f := range shot.Fields {
			keys = append(keys, f.Key)
		}
	}
	t := &Table{Source: s.Path, Profile: s.ProfileName, Start: s.StartTime, Times: s.Times()}
	for _, k := range keys {
		f, _ := shot.LookupField(k)
		ser := s.ExtractSeries(f.Path())
		if !ser.Present() {
			continue
		}
		t.Columns = append(t.Columns, Column{Key: f.Key, Name: f.Name, Unit: f.Unit, Values: ser.Values})
	}
	return t
}

// document is the JSON/YAML shape of a table. Missing values are null.
type document struct {
	Source  string      `json:"source" yaml:"source"`
	Profile string      `json:"profile" yaml:"profile"`
	Start   string      `json:"start,omitempty" yaml:"start,omitempty"`
	Time    []float64   `json:"time" yaml:"time"`
	Series  []docSeries `json:"series" yaml:"series"`
}

type docSeries struct {
	Key    string     `json:"key" yaml:"key"`
	Name   string     `json:"name" yaml:"name"`
	Unit   string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	Values []*float64 `json:"values" yaml:"values"`
}

func (t *Table) document() document {
	d := document{Source: t.Source, Profile: t.Profile, Time: t.Times, Series: []docSeries{}}
	if !t.Start.IsZero() {
		d.Start = t.Start.UTC().Format(time.RFC3339)
	}
	if d.Time == nil {
		d.Time = []float64{}
	}
	for _, c := range t.Columns {
		ds := docSeries{Key: c.Key, Name: c.Name, Unit: c.Unit, Values: make([]*float64, len(c.Values))}
		for i, v := range c.Values {
			if !math.IsNaN(v) {
				v := v
				ds.Values[i] = &v
			}
		}
		d.Series = append(d.Series, ds)
	}
	return d
}
