// Package components provides ANSI-aware text primitives for the qqbar strip:
// visible width, truncation, padding and alignment of styled segments.
package components

// Align controls horizontal text alignment within a zone.
type Align int

const (
	// AlignLeft aligns text to the left edge (default).
	AlignLeft Align = iota
	// AlignCenter centers text horizontally.
	AlignCenter
	// AlignRight aligns text to the right edge.
	AlignRight
)

// Fit truncates or pads s to exactly width visible cells using align.
func Fit(s string, width int, align Align) string {
	if width <= 0 {
		return ""
	}
	if VisibleLen(s) > width {
		return TruncateWithTail(s, width, "…")
	}
	switch align {
	case AlignCenter:
		return PadCenter(s, width)
	case AlignRight:
		return PadLeft(s, width)
	default:
		return PadRight(s, width)
	}
}
