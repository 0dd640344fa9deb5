package keyboard

import (
	"context"
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"rules:      evdev\nmodel:      pc105\nlayout:     us\n", "us", true},
		{"rules:      evdev\nlayout:     de,us\nvariant:    ,\n", "de", true},
		{"rules: evdev\n", "", false},
		{"layout:\n", "", false},
	}
	for _, tt := range tests {
		got, ok := parseLayout(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseLayout(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCollect(t *testing.T) {
	p := New(0)
	p.query = func(context.Context) (string, error) { return "layout:     fr\n", nil }
	v, err := p.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if v != (providers.Keyboard{Layout: "fr"}) {
		t.Errorf("Collect = %+v", v)
	}

	p.query = func(context.Context) (string, error) { return "", errors.New("no display") }
	if _, err := p.Collect(context.Background()); err == nil {
		t.Error("expected error")
	}
	if p.Healthy() {
		t.Error("provider should be unhealthy")
	}
}
