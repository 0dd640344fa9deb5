package media

import (
	"context"
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		in   string
		want providers.Media
		ok   bool
	}{
		{"Playing\tBoards of Canada\tRoygbiv\n", providers.Media{IsPlaying: true, Artist: "Boards of Canada", Title: "Roygbiv"}, true},
		{"Paused\t\tPodcast #12\n", providers.Media{Title: "Podcast #12"}, true},
		{"Stopped\tx\ty\n", providers.Media{}, false},
		{"Playing\tartist\t\n", providers.Media{}, false},
		{"garbage", providers.Media{}, false},
	}
	for _, tt := range tests {
		got, ok := parseMetadata(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseMetadata(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCollectNoPlayerIsAbsent(t *testing.T) {
	p := New(0)
	p.metadata = func(context.Context) (string, error) { return "", errNoPlayer }
	v, err := p.Collect(context.Background())
	if v != nil || err != nil {
		t.Errorf("Collect = %v, %v; want nil, nil", v, err)
	}
	if !p.Healthy() {
		t.Error("no player is not a failure")
	}
}

func TestCollectFailure(t *testing.T) {
	p := New(0)
	p.metadata = func(context.Context) (string, error) { return "", errors.New("exec: not found") }
	if _, err := p.Collect(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if p.Healthy() {
		t.Error("provider should be unhealthy")
	}
}
