package app

import (
	"strings"

	"gitlab.com/tinyland/lab/qqbar/pkg/components"
	"gitlab.com/tinyland/lab/qqbar/pkg/layout"
	"gitlab.com/tinyland/lab/qqbar/pkg/widgets"
)

// zoneGap is the minimum number of blank cells between zones.
const zoneGap = 2

// Frame renders a bar into one line.
type Frame struct {
	r *widgets.Renderer

	// Mark wraps an item's rendered text with a click-target marker. Nil
	// leaves the text as is.
	Mark func(id, s string) string

	// Selected, when non-empty, draws that item reversed.
	Selected string
}

// NewFrame returns a frame drawing with r.
func NewFrame(r *widgets.Renderer) *Frame {
	return &Frame{r: r}
}

// Render draws b into exactly width cells. A width of zero or less uses the
// bar's natural width.
func (f *Frame) Render(b Bar, width int) string {
	left := f.zone(b.Left, " ")
	center := f.zone(b.Center, " ")
	right := f.zone(b.Right, f.r.Separator())

	lw, cw, rw := components.VisibleLen(left), components.VisibleLen(center), components.VisibleLen(right)
	if width <= 0 {
		width = lw + cw + rw
		if lw > 0 && (cw > 0 || rw > 0) {
			width += zoneGap
		}
		if cw > 0 && rw > 0 {
			width += zoneGap
		}
	}
	z := layout.Place(width, lw, cw, rw, zoneGap)
	return layout.Row(z, left, center, right)
}

// Plain renders b at its natural width with no click markers, for line
// output.
func (f *Frame) Plain(b Bar) string {
	return strings.TrimRight(components.Strip((&Frame{r: f.r}).Render(b, 0)), " ")
}

func (f *Frame) zone(items []Item, sep string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s := f.r.Render(it.Rep)
		if s == "" {
			continue
		}
		if it.ID == f.Selected {
			s = f.r.Highlight(s)
		}
		if f.Mark != nil {
			s = f.Mark(it.ID, s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}
