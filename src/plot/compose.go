// Package plot turns loaded shots plus user selections into a Figure and renders figures with
// go-chart. The viewer and the batch CLI share this path, so the same inputs always produce the
// same line attributes.
package plot

import (
	"fmt"
	"math"

	"github.com/iafilius/ShotPlot/src/axis"
	"github.com/iafilius/ShotPlot/src/hover"
	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

// Messages shown instead of a chart.
const (
	MsgNoData      = "No data loaded"
	MsgNoSelection = "No data series selected"
	MsgNoSamples   = "Shot file contains no samples"
)

// RangePadding is the fraction of the data span added above and below each y range.
const RangePadding = 0.05

// View is everything that determines a figure.
type View struct {
	// Shots holds the two slots; either may be nil.
	Shots [2]*shot.Shot
	// Trim is the per-slot upper time bound in seconds; <= 0 disables trimming.
	Trim    [2]float64
	Compare bool

	Selected []string
	// Secondary lists keys drawn against the secondary axis, in addition to styles whose
	// Axis is already style.Secondary.
	Secondary map[string]bool
	Styles    map[string]style.Spec
	Palette   style.Palette

	Title string // overrides the derived title when set

	// Size either in pixels, or in inches at DPI when Width/Height are zero.
	Width, Height     int
	WidthIn, HeightIn float64
	DPI               float64
	HideGrid          bool
}

// Trace is one drawn line with fully resolved attributes.
type Trace struct {
	Field  shot.Field
	Label  string
	Slot   int // 0 or 1
	Series shot.Series
	Style  style.Resolved
}

// Figure is a composed, renderable plot.
type Figure struct {
	Title   string
	Message string // non-empty means "render a placeholder with this text"
	Traces  []Trace

	Width, Height int
	DPI           float64
	Grid          bool

	XMax         float64
	Primary      axis.Range
	SecondaryY   axis.Range
	HasSecondary bool
	// Aligned reports whether the two y axes share their zero line.
	Aligned bool
}

// AxisOf returns the axis a key is drawn on under v. An entry in Secondary, true or false,
// decides; otherwise the style spec's axis applies.
func (v View) AxisOf(key string) style.Axis {
	if on, ok := v.Secondary[key]; ok {
		if on {
			return style.Secondary
		}
		return style.Primary
	}
	if sp, ok := v.Styles[key]; ok && sp.Axis == style.Secondary {
		return style.Secondary
	}
	return style.Primary
}

// loaded returns the slots that hold a shot, trimmed as requested.
func (v View) loaded() ([]*shot.Shot, []int) {
	var shots []*shot.Shot
	var slots []int
	for i, s := range v.Shots {
		if s == nil {
			continue
		}
		if v.Trim[i] > 0 {
			s = s.Trim(v.Trim[i])
		}
		shots = append(shots, s)
		slots = append(slots, i)
	}
	return shots, slots
}

func (v View) size() (int, int, float64) {
	dpi := v.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if v.Width > 0 && v.Height > 0 {
		return v.Width, v.Height, dpi
	}
	w, h := axis.PixelSize(v.WidthIn, v.HeightIn, dpi)
	return w, h, dpi
}

// Compose builds the figure for v. Single mode plots the first loaded slot; compare mode with
// two loaded shots overlays the second with the derived compare style in the same colors.
func Compose(v View) *Figure {
	w, h, dpi := v.size()
	fig := &Figure{Width: w, Height: h, DPI: dpi, Grid: !v.HideGrid}
	shots, slots := v.loaded()
	if len(shots) == 0 {
		fig.Message = MsgNoData
		fig.Title = v.Title
		return fig
	}
	compare := v.Compare && len(shots) == 2
	if !compare {
		shots, slots = shots[:1], slots[:1]
	}
	switch {
	case v.Title != "":
		fig.Title = v.Title
	case compare:
		fig.Title = fmt.Sprintf("Comparison: %s vs %s", shots[0].ShortName(), shots[1].ShortName())
	default:
		fig.Title = shots[0].Title()
	}

	for idx, key := range v.Selected {
		f, _ := shot.LookupField(key)
		sp := v.Styles[key]
		sp.Axis = v.AxisOf(key)
		base := sp.Resolve(v.Palette, idx)
		for n, s := range shots {
			ser := s.ExtractSeries(f.Path())
			if !ser.Present() {
				continue
			}
			rs := base
			if n == 1 {
				rs.Line = base.Line.CompareVariant()
			}
			fig.Traces = append(fig.Traces, Trace{
				Field:  f,
				Label:  traceLabel(f, s, compare, rs.Axis),
				Slot:   slots[n],
				Series: ser,
				Style:  rs,
			})
		}
	}
	if len(fig.Traces) == 0 {
		fig.Message = MsgNoSelection
		if len(v.Selected) > 0 && allEmpty(shots) {
			fig.Message = MsgNoSamples
		}
		return fig
	}
	fig.computeRanges()
	return fig
}

func allEmpty(shots []*shot.Shot) bool {
	for _, s := range shots {
		if len(s.Samples) > 0 {
			return false
		}
	}
	return true
}

func traceLabel(f shot.Field, s *shot.Shot, compare bool, ax style.Axis) string {
	var label string
	if compare {
		label = fmt.Sprintf("%s (%s)", f.Name, s.ShortName())
	} else {
		label = f.Label()
	}
	if ax == style.Secondary {
		label += " [2nd]"
	}
	return label
}

func (f *Figure) computeRanges() {
	prim := axis.Range{Min: math.Inf(1), Max: math.Inf(-1)}
	sec := prim
	for _, tr := range f.Traces {
		lo, hi, ok := tr.Series.Range()
		if !ok {
			continue
		}
		r := &prim
		if tr.Style.Axis == style.Secondary {
			r = &sec
			f.HasSecondary = true
		}
		r.Min = math.Min(r.Min, lo)
		r.Max = math.Max(r.Max, hi)
		if n := len(tr.Series.Times); n > 0 {
			f.XMax = math.Max(f.XMax, tr.Series.Times[n-1])
		}
	}
	if f.XMax <= 0 {
		f.XMax = 1
	}
	if !prim.Valid() {
		prim = axis.Range{Min: 0, Max: 1}
	}
	f.Primary = axis.Pad(prim, RangePadding)
	if !f.HasSecondary {
		return
	}
	f.SecondaryY = axis.Pad(sec, RangePadding)
	// An axis whose data sits entirely on zero has no zero line to match: it gets the
	// default symmetric range and the other axis keeps its own padding.
	primFlat := prim.IncludeZero().Span() <= 0
	secFlat := sec.IncludeZero().Span() <= 0
	if primFlat || secFlat {
		if primFlat {
			f.Primary = axis.DefaultDegenerate
		}
		if secFlat {
			f.SecondaryY = axis.DefaultDegenerate
		}
		return
	}
	f.Primary, f.SecondaryY, f.Aligned = axis.AlignZero(f.Primary, f.SecondaryY)
}

// HoverTracks converts the traces of one slot into hover tracks.
func (f *Figure) HoverTracks(slot int) []hover.Track {
	var out []hover.Track
	for _, tr := range f.Traces {
		if tr.Slot != slot {
			continue
		}
		out = append(out, hover.Track{
			Key:    tr.Field.Key,
			Name:   tr.Field.Name,
			Unit:   tr.Field.Unit,
			Color:  tr.Style.Hex,
			Group:  tr.Field.Base,
			Times:  tr.Series.Times,
			Values: tr.Series.Values,
		})
	}
	return out
}

// Slots lists the distinct slots present in the figure, in order.
func (f *Figure) Slots() []int {
	var out []int
	seen := map[int]bool{}
	for _, tr := range f.Traces {
		if !seen[tr.Slot] {
			seen[tr.Slot] = true
			out = append(out, tr.Slot)
		}
	}
	return out
}
