package battery

import (
	"context"
	"testing"
	"testing/fstest"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

func TestCollectSingleBattery(t *testing.T) {
	fsys := fstest.MapFS{
		"AC/type":       {Data: []byte("Mains\n")},
		"AC/online":     {Data: []byte("1\n")},
		"BAT0/type":     {Data: []byte("Battery\n")},
		"BAT0/capacity": {Data: []byte("91\n")},
		"BAT0/status":   {Data: []byte("Charging\n")},
	}

	v, err := NewFS(fsys, 0).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := providers.Battery{ChargePercent: 91, IsCharging: true}
	if v != want {
		t.Errorf("Collect = %+v, want %+v", v, want)
	}
}

func TestCollectAveragesBatteries(t *testing.T) {
	fsys := fstest.MapFS{
		"BAT0/type":     {Data: []byte("Battery")},
		"BAT0/capacity": {Data: []byte("80")},
		"BAT0/status":   {Data: []byte("Discharging")},
		"BAT1/type":     {Data: []byte("Battery")},
		"BAT1/capacity": {Data: []byte("40")},
		"BAT1/status":   {Data: []byte("Discharging")},
	}

	v, err := NewFS(fsys, 0).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	b := v.(providers.Battery)
	if b.ChargePercent != 60 || b.IsCharging {
		t.Errorf("Collect = %+v, want 60%% discharging", b)
	}
}

func TestCollectNoBatteryIsAbsent(t *testing.T) {
	fsys := fstest.MapFS{
		"AC/type": {Data: []byte("Mains")},
	}
	v, err := NewFS(fsys, 0).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if v != nil {
		t.Errorf("Collect = %v, want nil (absent)", v)
	}
}

func TestCollectSkipsUnreadableCapacity(t *testing.T) {
	fsys := fstest.MapFS{
		"BAT0/type":     {Data: []byte("Battery")},
		"BAT0/capacity": {Data: []byte("n/a")},
	}
	v, err := NewFS(fsys, 0).Collect(context.Background())
	if err != nil || v != nil {
		t.Errorf("Collect = %v, %v; want nil, nil", v, err)
	}
}

func TestDefaults(t *testing.T) {
	p := New("", 0)
	if p.Name() != "battery" {
		t.Errorf("Name = %q", p.Name())
	}
	if p.Interval().Seconds() != 10 {
		t.Errorf("Interval = %v, want 10s", p.Interval())
	}
	if !p.Healthy() {
		t.Error("new provider should be healthy")
	}
}
