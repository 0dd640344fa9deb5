package layout

import (
	"testing"

	"gitlab.com/tinyland/lab/qqbar/pkg/components"
)

// assertZones fails the test if got and want differ.
func assertZones(t *testing.T, label string, got Zones, want [3]Span) {
	t.Helper()
	spans := [3]Span{got.Left, got.Center, got.Right}
	names := [3]string{"left", "center", "right"}
	for i := range spans {
		if spans[i] != want[i] {
			t.Errorf("%s %s: got %+v, want %+v", label, names[i], spans[i], want[i])
		}
	}
}

func TestPlaceCentersWhenRoomy(t *testing.T) {
	z := Place(100, 20, 10, 30, 1)
	assertZones(t, "roomy", z, [3]Span{{0, 20}, {45, 10}, {70, 30}})
}

func TestPlacePushesCenterAwayFromWideRight(t *testing.T) {
	// Centered would be X=35..45 but right starts at 40.
	z := Place(80, 5, 10, 40, 1)
	assertZones(t, "wide right", z, [3]Span{{0, 5}, {29, 10}, {40, 40}})
}

func TestPlacePushesCenterAwayFromWideLeft(t *testing.T) {
	z := Place(80, 40, 10, 5, 2)
	assertZones(t, "wide left", z, [3]Span{{0, 40}, {42, 10}, {75, 5}})
}

func TestPlaceShrinksCenterFirst(t *testing.T) {
	z := Place(30, 10, 20, 10, 1)
	assertZones(t, "narrow", z, [3]Span{{0, 10}, {11, 8}, {20, 10}})
}

func TestPlaceShrinksRightThenLeft(t *testing.T) {
	z := Place(20, 12, 5, 12, 1)
	assertZones(t, "very narrow", z, [3]Span{{0, 12}, {13, 0}, {13, 7}})

	z = Place(10, 15, 5, 5, 1)
	assertZones(t, "left overflows", z, [3]Span{{0, 10}, {10, 0}, {10, 0}})
}

func TestPlaceEmptyZonesTakeNoGap(t *testing.T) {
	z := Place(40, 0, 10, 0, 3)
	assertZones(t, "center only", z, [3]Span{{0, 0}, {15, 10}, {40, 0}})

	z = Place(10, 5, 0, 5, 1)
	if z.Right.X != 6 || z.Right.Width != 4 {
		t.Errorf("right = %+v, want gap kept between left and right", z.Right)
	}
}

func TestPlaceZeroWidth(t *testing.T) {
	z := Place(0, 10, 10, 10, 1)
	assertZones(t, "zero", z, [3]Span{})
	if Row(z, "a", "b", "c") != "" {
		t.Error("Row on a zero-width bar should be empty")
	}
}

func TestRowIsExactWidth(t *testing.T) {
	tests := []struct {
		total               int
		left, center, right string
	}{
		{40, "1 2 3", "Mon 2 Jan 15:04", "cpu 12%"},
		{12, "1 2 3", "Mon 2 Jan 15:04", "cpu 12%"},
		{40, "", "", ""},
		{40, "\x1b[1mbold\x1b[0m", "", "x"},
	}
	for _, tt := range tests {
		z := Place(tt.total,
			components.VisibleLen(tt.left),
			components.VisibleLen(tt.center),
			components.VisibleLen(tt.right), 1)
		got := Row(z, tt.left, tt.center, tt.right)
		if w := components.VisibleLen(got); w != tt.total {
			t.Errorf("Row(%d, %q, %q, %q) width = %d", tt.total, tt.left, tt.center, tt.right, w)
		}
	}
}

func TestRowLayout(t *testing.T) {
	z := Place(20, 3, 4, 3, 1)
	got := Row(z, "abc", "date", "xyz")
	want := "abc     date     xyz"
	if got != want {
		t.Errorf("Row = %q, want %q", got, want)
	}
}

func TestZoneHitTest(t *testing.T) {
	z := Place(20, 3, 4, 3, 1)
	tests := []struct {
		x    int
		want string
	}{
		{0, "left"}, {2, "left"}, {3, ""}, {8, "center"}, {11, "center"},
		{12, ""}, {17, "right"}, {19, "right"}, {20, ""},
	}
	for _, tt := range tests {
		if got := z.Zone(tt.x); got != tt.want {
			t.Errorf("Zone(%d) = %q, want %q", tt.x, got, tt.want)
		}
	}
}

func TestSpan(t *testing.T) {
	s := Span{X: 4, Width: 3}
	if s.End() != 7 || s.Empty() || !s.Contains(4) || s.Contains(7) {
		t.Errorf("span helpers wrong for %+v", s)
	}
	if !(Span{}).Empty() {
		t.Error("zero span should be empty")
	}
}
