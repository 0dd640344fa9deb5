package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/qqbar/pkg/components"
	"gitlab.com/tinyland/lab/qqbar/pkg/theme"
)

// statePriority decides which tag colors the label when several apply.
// Every present tag still adds its attributes; stale colors only an item
// with no other colored tag.
var statePriority = []string{
	StateHighUsage,
	StatePaused,
	StateBindingMode,
	StateFocused,
	StateDisplayed,
	StateMuted,
	StateOff,
	StatePlaying,
	StateStale,
}

// DefaultMeterWidth is the slider track width in cells.
const DefaultMeterWidth = 10

// Renderer draws representations as styled terminal text.
type Renderer struct {
	theme      theme.Theme
	lg         *lipgloss.Renderer
	nerdFont   bool
	maxLabel   int
	meterWidth int

	label    lipgloss.Style
	icon     lipgloss.Style
	charging lipgloss.Style
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithLipgloss renders through lr, which fixes the color profile.
func WithLipgloss(lr *lipgloss.Renderer) RenderOption {
	return func(r *Renderer) { r.lg = lr }
}

// WithASCII draws icons as plain text instead of Nerd Font glyphs.
func WithASCII() RenderOption {
	return func(r *Renderer) { r.nerdFont = false }
}

// WithMaxLabel truncates labels wider than n cells. Zero means no limit.
func WithMaxLabel(n int) RenderOption {
	return func(r *Renderer) { r.maxLabel = n }
}

// NewRenderer creates a renderer for th.
func NewRenderer(th theme.Theme, opts ...RenderOption) *Renderer {
	r := &Renderer{
		theme:      th,
		lg:         lipgloss.DefaultRenderer(),
		nerdFont:   true,
		meterWidth: DefaultMeterWidth,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.label = r.lg.NewStyle().Foreground(lipgloss.Color(th.Foreground))
	r.icon = r.lg.NewStyle().Foreground(lipgloss.Color(th.Accent))
	r.charging = r.lg.NewStyle().Foreground(lipgloss.Color(th.StateColor(StateCharging)))
	return r
}

// Separator returns the dimmed gap drawn between items.
func (r *Renderer) Separator() string {
	return r.lg.NewStyle().Foreground(lipgloss.Color(r.theme.Dim)).Render(" │ ")
}

// Render draws rep on one line: badge, icon, meter, label.
func (r *Renderer) Render(rep Representation) string {
	labelStyle, iconStyle := r.label, r.icon
	if st, ok := r.stateStyle(rep); ok {
		labelStyle, iconStyle = st, st
	}

	var parts []string
	if g := r.glyph(rep.Badge); g != "" {
		parts = append(parts, r.charging.Render(g))
	}
	if g := r.glyph(rep.Icon); g != "" {
		parts = append(parts, iconStyle.Render(g))
	}
	if rep.Meter != nil {
		parts = append(parts, r.meter(*rep.Meter))
	}
	if rep.Label != "" {
		label := rep.Label
		if r.maxLabel > 0 {
			label = components.TruncateWithTail(label, r.maxLabel, "…")
		}
		parts = append(parts, labelStyle.Render(label))
	}
	return strings.Join(parts, " ")
}

// stateStyle layers every tag rep carries: the foreground comes from the
// first colored tag in statePriority, the attributes from all of them.
func (r *Renderer) stateStyle(rep Representation) (lipgloss.Style, bool) {
	st := r.lg.NewStyle()
	var found, colored bool
	for _, s := range statePriority {
		if !rep.Has(s) {
			continue
		}
		found = true
		if c := r.theme.StateColor(s); c != "" && !colored {
			st = st.Foreground(lipgloss.Color(c))
			colored = true
		}
		switch s {
		case StateFocused, StatePaused:
			st = st.Bold(true)
		case StateDisplayed:
			st = st.Underline(true)
		case StateStale:
			st = st.Faint(true)
		}
	}
	return st, found
}

func (r *Renderer) glyph(i Icon) string {
	if r.nerdFont {
		return i.Glyph()
	}
	return i.ASCII()
}

// meter draws a track with v/100 of its cells filled.
func (r *Renderer) meter(v int) string {
	filled := Round(float64(v) / 100 * float64(r.meterWidth))
	if filled > r.meterWidth {
		filled = r.meterWidth
	}
	if filled < 0 {
		filled = 0
	}
	on := r.lg.NewStyle().Foreground(lipgloss.Color(r.theme.MeterFilled))
	off := r.lg.NewStyle().Foreground(lipgloss.Color(r.theme.MeterEmpty))
	return on.Render(strings.Repeat("━", filled)) + off.Render(strings.Repeat("─", r.meterWidth-filled))
}

// Highlight draws s reversed, dropping any inner styling. It marks the item
// that has keyboard focus.
func (r *Renderer) Highlight(s string) string {
	return r.lg.NewStyle().Reverse(true).Render(components.Strip(s))
}

// VolumeAt maps a column inside a rendered VolumeSlider to a volume. The
// track starts at column 0; columns past it clamp to 100.
func (r *Renderer) VolumeAt(col int) int {
	if col < 0 {
		return 0
	}
	if col >= r.meterWidth {
		return 100
	}
	return Round(float64(col+1) / float64(r.meterWidth) * 100)
}
