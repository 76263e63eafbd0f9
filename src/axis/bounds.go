package axis

import (
	"math"
	"strconv"
)

// Pad widens r by pct of its span on both sides. A zero-span range is widened by pct of its
// magnitude, or by 1 when it sits on zero.
func Pad(r Range, pct float64) Range {
	span := r.Span()
	pad := span * pct
	if span <= 0 {
		pad = math.Abs(r.Max) * pct
		if pad == 0 {
			pad = 1
		}
	}
	return Range{Min: r.Min - pad, Max: r.Max + pad}
}

// NumericTicks returns roughly n tick positions on a 1/2/2.5/5 ×10^k grid that fall inside
// [min,max]. Nothing is generated for fewer than two ticks or NaN input.
func NumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	step := niceStep(max-min, n)
	start := math.Ceil(min/step) * step
	var out []float64
	for v := start; v <= max+step*1e-9; v += step {
		out = append(out, round6(v))
		if len(out) > 4*n {
			break
		}
	}
	return out
}

// TimeTicks returns ticks from 0 to maxSeconds (inclusive when on the grid).
func TimeTicks(maxSeconds float64, n int) []float64 {
	if maxSeconds <= 0 || math.IsNaN(maxSeconds) {
		return []float64{0}
	}
	return NumericTicks(0, maxSeconds, n)
}

func niceStep(span float64, n int) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Floor(span/step) + 1
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			best = step
		}
	}
	return best
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatTick gives a compact label: integers from 100, one decimal from 10, else two.
func FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// ChartDimensions applies the viewer's width/height clamp rules to a raw canvas width.
func ChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.45)
	if h < 320 {
		h = 320
	}
	if h > 640 {
		h = 640
	}
	return w, h
}

// PixelSize converts a figure size in inches to pixels at dpi. Non-positive input falls
// back to 14x7in at 200dpi.
func PixelSize(widthIn, heightIn, dpi float64) (int, int) {
	if widthIn <= 0 {
		widthIn = 14
	}
	if heightIn <= 0 {
		heightIn = 7
	}
	if dpi <= 0 {
		dpi = 200
	}
	return int(math.Round(widthIn * dpi)), int(math.Round(heightIn * dpi))
}
