// Package widgets maps provider values onto discrete representations (icon,
// label, state tags) and renders them with lipgloss. Mappers are pure: the
// same value always yields the same Representation.
package widgets

import "slices"

// State tags attached to representations. Several may apply at once.
const (
	StateFocused     = "focused"
	StateDisplayed   = "displayed"
	StateHighUsage   = "high-usage"
	StateCharging    = "charging"
	StateMuted       = "muted"
	StatePaused      = "paused"
	StateBindingMode = "binding-mode"
	StateOff         = "off"
	StatePlaying     = "playing"
	StateStale       = "stale"
)

// Representation is the discrete projection of one value.
type Representation struct {
	// Badge is a supplementary icon drawn before Icon.
	Badge Icon
	Icon  Icon
	Label string

	// Meter, when non-nil, is a 0-100 level drawn as a track.
	Meter *int

	States []string
}

// Has reports whether the state tag is set.
func (r Representation) Has(state string) bool {
	return slices.Contains(r.States, state)
}

// WithState returns a copy of r with state added.
func (r Representation) WithState(state string) Representation {
	if r.Has(state) {
		return r
	}
	r.States = append(slices.Clone(r.States), state)
	return r
}

// Empty reports whether r would draw nothing.
func (r Representation) Empty() bool {
	return r.Badge == "" && r.Icon == "" && r.Label == "" && r.Meter == nil
}
