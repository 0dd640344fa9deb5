package config

import (
	"slices"
	"sort"
)

// Item names a slot in a zone. Each item is rendered from the snapshot by
// the matching mapper and omitted when its source is absent.
type Item string

const (
	ItemWorkspaces   Item = "workspaces"
	ItemDate         Item = "date"
	ItemPaused       Item = "paused"
	ItemBindingModes Item = "binding-modes"
	ItemTiling       Item = "tiling"
	ItemNetwork      Item = "network"
	ItemMemory       Item = "memory"
	ItemCPU          Item = "cpu"
	ItemAudio        Item = "audio"
	ItemBattery      Item = "battery"
	ItemWeather      Item = "weather"
	ItemKeyboard     Item = "keyboard"
	ItemMedia        Item = "media"
)

// ZoneConfig is the item order of the bar's three zones.
type ZoneConfig struct {
	Preset string
	Left   []Item
	Center []Item
	Right  []Item
}

// Has reports whether any zone contains item.
func (z ZoneConfig) Has(item Item) bool {
	return slices.Contains(z.Left, item) || slices.Contains(z.Center, item) || slices.Contains(z.Right, item)
}

var presets = map[string]func() ZoneConfig{
	"default": defaultPreset,
	"minimal": minimalPreset,
}

// ZonePreset returns the zone configuration for a named preset.
// If the name is not recognized, the "default" preset is returned.
func ZonePreset(name string) ZoneConfig {
	if fn, ok := presets[name]; ok {
		return fn()
	}
	return defaultPreset()
}

// HasPreset reports whether name is a known preset.
func HasPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultPreset returns the full bar.
//
//	[workspaces]      [date]      [paused binding tiling network memory cpu audio battery weather keyboard media]
func defaultPreset() ZoneConfig {
	return ZoneConfig{
		Preset: "default",
		Left:   []Item{ItemWorkspaces},
		Center: []Item{ItemDate},
		Right: []Item{
			ItemPaused,
			ItemBindingModes,
			ItemTiling,
			ItemNetwork,
			ItemMemory,
			ItemCPU,
			ItemAudio,
			ItemBattery,
			ItemWeather,
			ItemKeyboard,
			ItemMedia,
		},
	}
}

// minimalPreset keeps workspaces, the date and the system gauges.
//
//	[workspaces]      [date]      [cpu memory battery]
func minimalPreset() ZoneConfig {
	return ZoneConfig{
		Preset: "minimal",
		Left:   []Item{ItemWorkspaces},
		Center: []Item{ItemDate},
		Right:  []Item{ItemCPU, ItemMemory, ItemBattery},
	}
}
