// Package style describes how a plotted series looks: color, dash pattern, width and the
// y-axis it is drawn against.
package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// LineStyle is the dash pattern of a line.
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
	Dotted
	DashDot
)

// LineStyles lists the choices in the order the style dialog shows them.
var LineStyles = []LineStyle{Solid, Dashed, Dotted, DashDot}

func (l LineStyle) String() string {
	switch l {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	case DashDot:
		return "dashdot"
	}
	return "solid"
}

// Title is the human label used by dialogs.
func (l LineStyle) Title() string {
	switch l {
	case Dashed:
		return "Dashed"
	case Dotted:
		return "Dotted"
	case DashDot:
		return "Dash-Dot"
	}
	return "Solid"
}

// ParseLineStyle accepts names ("dashed", "Dash-Dot") and matplotlib tokens ("--", ":").
func ParseLineStyle(s string) (LineStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid", "-", "":
		return Solid, true
	case "dashed", "--":
		return Dashed, true
	case "dotted", ":":
		return Dotted, true
	case "dashdot", "dash-dot", "-.":
		return DashDot, true
	}
	return Solid, false
}

// MarshalText implements encoding.TextMarshaler.
func (l LineStyle) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler; unknown names are an error.
func (l *LineStyle) UnmarshalText(b []byte) error {
	v, ok := ParseLineStyle(string(b))
	if !ok {
		return fmt.Errorf("unknown line style %q", string(b))
	}
	*l = v
	return nil
}

// DashArray returns the go-chart stroke dash pattern scaled to the line width.
func (l LineStyle) DashArray(width float64) []float64 {
	w := math.Max(width, 1)
	switch l {
	case Dashed:
		return []float64{6 * w, 4 * w}
	case Dotted:
		return []float64{1.5 * w, 3 * w}
	case DashDot:
		return []float64{6 * w, 3 * w, 1.5 * w, 3 * w}
	}
	return nil
}

// CompareVariant is the style used for the second shot in compare mode: dashed against a
// solid first shot, dotted otherwise.
func (l LineStyle) CompareVariant() LineStyle {
	if l == Solid {
		return Dashed
	}
	return Dotted
}

// Axis selects the y-axis a series is drawn against.
type Axis int

const (
	Primary Axis = iota
	Secondary
)

func (a Axis) String() string {
	if a == Secondary {
		return "secondary"
	}
	return "primary"
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "primary", "left", "":
		*a = Primary
	case "secondary", "right", "2nd":
		*a = Secondary
	default:
		return fmt.Errorf("unknown axis %q", string(b))
	}
	return nil
}

// Width limits and the default applied when a spec leaves it unset.
const (
	MinWidth     = 0.5
	MaxWidth     = 5.0
	DefaultWidth = 1.5
)

// Widths are the choices offered by the style dialog.
var Widths = []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0, 5.0}

// ClampWidth maps w into [MinWidth, MaxWidth]; zero or NaN mean DefaultWidth.
func ClampWidth(w float64) float64 {
	if w == 0 || math.IsNaN(w) {
		return DefaultWidth
	}
	return math.Max(MinWidth, math.Min(MaxWidth, w))
}

// Spec is a user's style override for one series. Zero fields mean "use the default":
// an empty Color picks from the palette, a zero Width means DefaultWidth.
type Spec struct {
	Color string    `json:"color,omitempty" yaml:"color,omitempty"`
	Line  LineStyle `json:"line_style" yaml:"line_style"`
	Width float64   `json:"width,omitempty" yaml:"width,omitempty"`
	Axis  Axis      `json:"axis" yaml:"axis"`
}

// IsZero reports whether the spec carries no overrides.
func (s Spec) IsZero() bool { return s == Spec{} }

// Normalized returns the spec with its width clamped and an unparsable color cleared.
func (s Spec) Normalized() Spec {
	s.Width = ClampWidth(s.Width)
	if s.Color != "" {
		if _, ok := ParseColor(s.Color); !ok {
			s.Color = ""
		}
	}
	return s
}

// Resolved is a fully determined line appearance.
type Resolved struct {
	Color drawing.Color
	Hex   string
	Line  LineStyle
	Width float64
	Axis  Axis
}

// Resolve fills the spec's defaults. index picks the palette color when the spec has none.
func (s Spec) Resolve(p Palette, index int) Resolved {
	n := s.Normalized()
	hex := n.Color
	if hex == "" {
		hex = p.At(index)
	}
	c, _ := ParseColor(hex)
	return Resolved{Color: c, Hex: FormatColor(c), Line: n.Line, Width: n.Width, Axis: n.Axis}
}
