package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/ShotPlot/src/axis"
	"github.com/iafilius/ShotPlot/src/style"
)

// DefaultDPI is the export resolution used by the CLI and the viewer's Export PNG.
const DefaultDPI = 200.0

// Tick counts aimed for on each axis.
const (
	timeTickCount  = 10
	valueTickCount = 8
)

var gridColor = drawing.ColorFromHex("dcdcdc")

// segment is a run of consecutive samples without NaN values.
type segment struct {
	x, y []float64
}

// splitSegments cuts a series at NaN values so gaps stay gaps instead of being bridged.
func splitSegments(times, values []float64) []segment {
	var out []segment
	var cur segment
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) || math.IsNaN(times[i]) {
			if len(cur.x) > 0 {
				out = append(out, cur)
				cur = segment{}
			}
			continue
		}
		cur.x = append(cur.x, times[i])
		cur.y = append(cur.y, values[i])
	}
	if len(cur.x) > 0 {
		out = append(out, cur)
	}
	return out
}

// pointsToPixels converts a line width in points to pixels at dpi.
func pointsToPixels(pt, dpi float64) float64 { return pt * dpi / 72 }

// SeriesStyle converts a resolved style into the go-chart line style at dpi.
func SeriesStyle(r style.Resolved, dpi float64) chart.Style {
	w := pointsToPixels(r.Width, dpi)
	return chart.Style{
		StrokeColor:     r.Color,
		StrokeWidth:     w,
		StrokeDashArray: r.Line.DashArray(w),
	}
}

func toTicks(vals []float64) []chart.Tick {
	out := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		out = append(out, chart.Tick{Value: v, Label: axis.FormatTick(v)})
	}
	return out
}

// axisName joins the distinct units of the traces on ax.
func axisName(fig *Figure, ax style.Axis) string {
	var units []string
	seen := map[string]bool{}
	for _, tr := range fig.Traces {
		if tr.Style.Axis != ax || tr.Field.Unit == "" || seen[tr.Field.Unit] {
			continue
		}
		seen[tr.Field.Unit] = true
		units = append(units, tr.Field.Unit)
	}
	return strings.Join(units, ", ")
}

func yAxis(name string, r axis.Range, grid bool) chart.YAxis {
	ya := chart.YAxis{
		Name:  name,
		Range: &chart.ContinuousRange{Min: r.Min, Max: r.Max},
		Ticks: toTicks(axis.NumericTicks(r.Min, r.Max, valueTickCount)),
	}
	if grid {
		ya.GridMajorStyle = chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	} else {
		ya.GridMajorStyle = chart.Style{Hidden: true}
		ya.GridMinorStyle = chart.Style{Hidden: true}
	}
	return ya
}

// Chart builds the go-chart chart for a composed figure. Each trace becomes one series per
// NaN-free segment; only the first carries the legend entry.
func Chart(fig *Figure) chart.Chart {
	var series []chart.Series
	var legend []chart.Series
	for _, tr := range fig.Traces {
		st := SeriesStyle(tr.Style, fig.DPI)
		ya := chart.YAxisPrimary
		if tr.Style.Axis == style.Secondary {
			ya = chart.YAxisSecondary
		}
		for _, seg := range splitSegments(tr.Series.Times, tr.Series.Values) {
			s := st
			if len(seg.x) == 1 {
				s.DotColor = st.StrokeColor
				s.DotWidth = st.StrokeWidth
			}
			series = append(series, chart.ContinuousSeries{Style: s, YAxis: ya, XValues: seg.x, YValues: seg.y})
		}
		legend = append(legend, chart.ContinuousSeries{Name: tr.Label, Style: st, YAxis: ya})
	}

	pad := int(math.Round(20 * fig.DPI / 96))
	c := chart.Chart{
		Title:      fig.Title,
		Width:      fig.Width,
		Height:     fig.Height,
		DPI:        fig.DPI,
		Background: chart.Style{Padding: chart.Box{Top: pad, Left: pad, Right: pad, Bottom: pad}},
		XAxis: chart.XAxis{
			Name:  "Time (s)",
			Range: &chart.ContinuousRange{Min: 0, Max: fig.XMax},
			Ticks: toTicks(axis.TimeTicks(fig.XMax, timeTickCount)),
		},
		YAxis:  yAxis(axisName(fig, style.Primary), fig.Primary, fig.Grid),
		Series: series,
	}
	if fig.Grid {
		c.XAxis.GridMajorStyle = chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	} else {
		c.XAxis.GridMajorStyle = chart.Style{Hidden: true}
		c.XAxis.GridMinorStyle = chart.Style{Hidden: true}
	}
	if fig.HasSecondary {
		c.YAxisSecondary = yAxis(axisName(fig, style.Secondary), fig.SecondaryY, false)
	} else {
		c.YAxisSecondary = chart.YAxis{Style: chart.Style{Hidden: true}}
	}
	lc := chart.Chart{Series: legend}
	c.Elements = []chart.Renderable{chart.Legend(&lc)}
	return c
}

// Render writes fig as PNG. Figures carrying a message render as a placeholder image.
func Render(w io.Writer, fig *Figure) error {
	if fig.Message != "" {
		return png.Encode(w, Placeholder(fig.Width, fig.Height, fig.Message))
	}
	c := Chart(fig)
	if err := c.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderImage renders fig into memory.
func RenderImage(fig *Figure) (image.Image, error) {
	if fig.Message != "" {
		return Placeholder(fig.Width, fig.Height, fig.Message), nil
	}
	var buf bytes.Buffer
	if err := Render(&buf, fig); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}
