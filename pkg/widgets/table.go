package widgets

import "math"

// Threshold is one row of a ThresholdTable.
type Threshold struct {
	Bound float64

	// Strict rows match values above Bound; others match values at or
	// above it.
	Strict bool

	Icon Icon
}

// ThresholdTable selects an icon for a number. Rows are evaluated in order,
// highest bound first; the first row the value satisfies wins and a value
// below every row yields Default.
type ThresholdTable struct {
	Rows    []Threshold
	Default Icon
}

// Select returns the icon for v. NaN selects Default.
func (t ThresholdTable) Select(v float64) Icon {
	for _, row := range t.Rows {
		if row.Strict && v > row.Bound || !row.Strict && v >= row.Bound {
			return row.Icon
		}
	}
	return t.Default
}

// EnumTable maps a closed tag set to icons. Unmapped tags yield Fallback,
// which may be the empty Icon.
type EnumTable[K comparable] struct {
	entries  map[K]Icon
	Fallback Icon
}

// NewEnumTable builds a table from entries.
func NewEnumTable[K comparable](entries map[K]Icon, fallback Icon) EnumTable[K] {
	return EnumTable[K]{entries: entries, Fallback: fallback}
}

// Lookup returns the icon for k and whether k was mapped.
func (t EnumTable[K]) Lookup(k K) (Icon, bool) {
	if icon, ok := t.entries[k]; ok {
		return icon, true
	}
	return t.Fallback, false
}

// Round rounds half up, so 13.5 becomes 14 and -0.5 becomes 0.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
