package style

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is an ordered list of hex colors cycled through by selection index.
type Palette []string

// Tab10 is the default ten-color cycle.
var Tab10 = Palette{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Presets are the named swatches of the style dialog.
var Presets = []struct{ Name, Hex string }{
	{"Blue", "#1f77b4"}, {"Orange", "#ff7f0e"}, {"Green", "#2ca02c"}, {"Red", "#d62728"},
	{"Purple", "#9467bd"}, {"Brown", "#8c564b"}, {"Pink", "#e377c2"}, {"Gray", "#7f7f7f"},
	{"Yellow", "#bcbd22"}, {"Cyan", "#17becf"}, {"Black", "#000000"},
}

// At returns the color for index, cycling; an empty palette falls back to Tab10.
func (p Palette) At(index int) string {
	if len(p) == 0 {
		p = Tab10
	}
	if index < 0 {
		index = -index
	}
	return p[index%len(p)]
}

// Valid returns the palette without entries that do not parse as colors.
func (p Palette) Valid() Palette {
	out := make(Palette, 0, len(p))
	for _, c := range p {
		if _, ok := ParseColor(c); ok {
			out = append(out, c)
		}
	}
	return out
}

// ParseColor accepts "#rgb" and "#rrggbb" (leading # optional).
func ParseColor(s string) (drawing.Color, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 3 && len(h) != 6 {
		return drawing.Color{}, false
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return drawing.Color{}, false
		}
	}
	return drawing.ColorFromHex(h), true
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
