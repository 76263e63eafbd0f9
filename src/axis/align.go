// Package axis holds the numeric helpers behind chart axes: padded ranges, tick
// placement and zero-line alignment between a primary and a secondary y-axis.
package axis

import "math"

// Range is a closed interval of axis values.
type Range struct {
	Min, Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool { return r.Min <= o.Min && r.Max >= o.Max }

// Valid reports whether both ends are finite.
func (r Range) Valid() bool {
	return !math.IsNaN(r.Min) && !math.IsNaN(r.Max) && !math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0)
}

// IncludeZero widens r so that it contains 0.
func (r Range) IncludeZero() Range {
	return Range{Min: math.Min(r.Min, 0), Max: math.Max(r.Max, 0)}
}

// ZeroFraction is the height of the zero line above the bottom of r, as a fraction of the
// span. Results are clamped to [0,1]; a degenerate range reports 0.
func ZeroFraction(r Range) float64 {
	span := r.Span()
	if span <= 0 {
		return 0
	}
	f := -r.Min / span
	return math.Max(0, math.Min(1, f))
}

// DefaultDegenerate is the range used for an axis whose data collapses onto zero.
var DefaultDegenerate = Range{Min: -1, Max: 1}

// AlignZero returns limits for two axes so their zero lines sit at the same height.
//
// Both ranges are first widened to include zero. Limits are then only ever extended, never
// shrunk, so the results contain the inputs. With fa <= fb the zero fractions:
//   - fb < 1: A's minimum moves down until A's fraction equals fb;
//   - fb == 1, fa > 0: B's maximum moves up until B's fraction equals fa;
//   - fa == 0, fb == 1 (A non-negative, B non-positive): zero is centred on both.
//
// When either range is degenerate (all data on zero) no alignment happens: that axis gets
// DefaultDegenerate, the other its zero-including range, and aligned is false.
func AlignZero(a, b Range) (Range, Range, bool) {
	a, b = a.IncludeZero(), b.IncludeZero()
	if !a.Valid() || !b.Valid() || a.Span() <= 0 || b.Span() <= 0 {
		if !a.Valid() || a.Span() <= 0 {
			a = DefaultDegenerate
		}
		if !b.Valid() || b.Span() <= 0 {
			b = DefaultDegenerate
		}
		return a, b, false
	}
	swapped := false
	fa, fb := ZeroFraction(a), ZeroFraction(b)
	if fa > fb {
		a, b = b, a
		fa, fb = fb, fa
		swapped = true
	}
	switch {
	case fa == fb:
	case fb < 1:
		a.Min = -fb * a.Max / (1 - fb)
	case fa > 0:
		b.Max = -b.Min * (1 - fa) / fa
	default:
		a.Min = -a.Max
		b.Max = -b.Min
	}
	if swapped {
		a, b = b, a
	}
	return a, b, true
}
