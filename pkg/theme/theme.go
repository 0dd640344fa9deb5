// Package theme holds the named color palettes used to style state tags.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme is the palette for one bar. Every color is "#RRGGBB", or a
// palette index after Adapt.
type Theme struct {
	Name string

	// Base colors
	Background string
	Foreground string
	Dim        string // separators and stale values
	Accent     string // icons

	// State tag colors
	Focused     string
	Displayed   string
	Warn        string // high-usage
	Charging    string
	Muted       string
	Paused      string
	BindingMode string
	Off         string
	Playing     string

	// Volume slider track
	MeterFilled string
	MeterEmpty  string
}

type colorField struct {
	key string
	ptr *string
}

// fields lists every color with its file key.
func (t *Theme) fields() []colorField {
	return []colorField{
		{"background", &t.Background},
		{"foreground", &t.Foreground},
		{"dim", &t.Dim},
		{"accent", &t.Accent},
		{"focused", &t.Focused},
		{"displayed", &t.Displayed},
		{"warn", &t.Warn},
		{"charging", &t.Charging},
		{"muted", &t.Muted},
		{"paused", &t.Paused},
		{"binding_mode", &t.BindingMode},
		{"off", &t.Off},
		{"playing", &t.Playing},
		{"meter_filled", &t.MeterFilled},
		{"meter_empty", &t.MeterEmpty},
	}
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Has reports whether a theme with that name is registered.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme. User themes loaded from TOML go through
// here.
func Register(t Theme) error {
	if err := thValidateTheme(t); err != nil {
		return err
	}
	thRegister(t)
	return nil
}

// thRegister adds a theme to the registry under its lowercase name.
func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

// StateColor returns the color for a state tag, or "" when the tag has no
// color of its own.
func (t Theme) StateColor(state string) string {
	switch state {
	case "focused":
		return t.Focused
	case "displayed":
		return t.Displayed
	case "high-usage":
		return t.Warn
	case "charging":
		return t.Charging
	case "muted":
		return t.Muted
	case "paused":
		return t.Paused
	case "binding-mode":
		return t.BindingMode
	case "off":
		return t.Off
	case "playing":
		return t.Playing
	case "stale":
		return t.Dim
	}
	return ""
}
