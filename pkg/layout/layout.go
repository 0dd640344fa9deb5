// Package layout places the bar's three zones on a single terminal row.
//
// Left is pinned to column 0 and right to the last column. Center is
// centered on the whole row when it fits between its neighbours and pushed
// aside otherwise. When the row is too narrow the solver shrinks in order:
//  1. center, to whatever is left between left and right
//  2. right, to whatever left leaves over
//  3. left, to the row width
package layout

import (
	"strings"

	"gitlab.com/tinyland/lab/qqbar/pkg/components"
)

// Span is a horizontal run of cells.
type Span struct {
	X, Width int
}

// End returns the column after the span (exclusive).
func (s Span) End() int {
	return s.X + s.Width
}

// Empty reports whether the span has no cells.
func (s Span) Empty() bool {
	return s.Width <= 0
}

// Contains reports whether column x lies within the span.
func (s Span) Contains(x int) bool {
	return x >= s.X && x < s.End()
}

// Zones is the solved placement of the left, center and right zones.
type Zones struct {
	Left, Center, Right Span
	Total               int
}

// Place solves the placement of zones whose natural widths are left, center
// and right on a row of total cells, keeping at least gap cells between
// non-empty neighbours.
func Place(total, left, center, right, gap int) Zones {
	z := Zones{Total: total}
	if total <= 0 {
		return z
	}
	left = clampRange(left, 0, total)
	center = clampNonNeg(center)
	right = clampNonNeg(right)
	gap = clampNonNeg(gap)

	if left+sep(left, right, gap)+right > total {
		right = clampNonNeg(total - left - gap)
	}

	lo := left + sep(left, center, gap)
	hi := total - right - sep(center, right, gap)
	if room := hi - lo; center > room {
		center = clampNonNeg(room)
	}

	x := min(lo, total-right)
	if center > 0 {
		x = clampRange((total-center)/2, lo, hi-center)
	}

	z.Left = Span{X: 0, Width: left}
	z.Center = Span{X: x, Width: center}
	z.Right = Span{X: total - right, Width: right}
	return z
}

// Row renders the three zone strings into a single line of exactly z.Total
// visible cells. Each string is truncated to its span; the gaps are filled
// with spaces.
func Row(z Zones, left, center, right string) string {
	if z.Total <= 0 {
		return ""
	}
	var b strings.Builder
	col := 0
	put := func(s Span, text string, align components.Align) {
		if s.Empty() {
			return
		}
		if s.X > col {
			b.WriteString(strings.Repeat(" ", s.X-col))
		}
		b.WriteString(components.Fit(text, s.Width, align))
		col = s.End()
	}
	put(z.Left, left, components.AlignLeft)
	put(z.Center, center, components.AlignCenter)
	put(z.Right, right, components.AlignRight)
	if col < z.Total {
		b.WriteString(strings.Repeat(" ", z.Total-col))
	}
	return b.String()
}

// Zone reports which zone contains column x: "left", "center", "right", or
// "" for a gap.
func (z Zones) Zone(x int) string {
	switch {
	case z.Left.Contains(x):
		return "left"
	case z.Center.Contains(x):
		return "center"
	case z.Right.Contains(x):
		return "right"
	}
	return ""
}

func sep(a, b, gap int) int {
	if a > 0 && b > 0 {
		return gap
	}
	return 0
}

func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
