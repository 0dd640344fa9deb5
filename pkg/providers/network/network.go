// Package network reports the interface carrying the default route, its
// kind, and for wireless links the signal strength and SSID.
package network

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	gnet "github.com/shirou/gopsutil/v4/net"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// Config controls the network source.
type Config struct {
	Interval time.Duration

	// SSIDCommand prints the SSID of the current wireless link. Empty
	// disables SSID lookup.
	SSIDCommand []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Second,
		SSIDCommand: []string{"iwgetid", "-r"},
	}
}

// virtualPrefixes name tunnel devices reported as proprietary_virtual.
var virtualPrefixes = []string{"tun", "tap", "wg", "ppp", "tailscale", "utun", "zt"}

// Provider is the "network" source.
type Provider struct {
	cfg    Config
	root   fs.FS
	failed atomic.Bool

	// interfaces and ssid are swapped out in tests.
	interfaces func(ctx context.Context) (gnet.InterfaceStatList, error)
	ssid       func(ctx context.Context) (string, error)
}

// New creates the network source reading /proc and /sys from the host.
func New(cfg Config) *Provider {
	return NewFS(cfg, os.DirFS("/"))
}

// NewFS creates the network source reading proc/ and sys/ from root.
func NewFS(cfg Config, root fs.FS) *Provider {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	p := &Provider{cfg: cfg, root: root, interfaces: gnet.InterfacesWithContext}
	p.ssid = p.runSSIDCommand
	return p
}

// Name returns the source name.
func (p *Provider) Name() string { return "network" }

// Interval returns the polling interval.
func (p *Provider) Interval() time.Duration { return p.cfg.Interval }

// Healthy reports whether the routing table was readable last time.
func (p *Provider) Healthy() bool { return !p.failed.Load() }

// Collect builds a Network value. A host without a default route yields a
// value with no default interface, which renders as "off".
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	f, err := p.root.Open("proc/net/route")
	if err != nil {
		p.failed.Store(true)
		return nil, fmt.Errorf("network: %w", err)
	}
	iface, ok := parseDefaultRoute(f)
	f.Close()
	p.failed.Store(false)

	if !ok {
		return providers.Network{}, nil
	}

	kind := p.classify(ctx, iface)
	out := providers.Network{
		DefaultInterface: &providers.NetworkInterface{Name: iface, Type: kind},
		DefaultGateway:   &providers.Gateway{},
	}

	if kind == providers.InterfaceWifi {
		if wf, err := p.root.Open("proc/net/wireless"); err == nil {
			if q, ok := parseWireless(wf, iface); ok {
				out.DefaultGateway.SignalStrength = &q
			}
			wf.Close()
		}
		if ssid, err := p.ssid(ctx); err == nil && ssid != "" {
			out.DefaultGateway.SSID = &ssid
		}
	}
	return out, nil
}

func (p *Provider) classify(ctx context.Context, iface string) providers.InterfaceType {
	if _, err := fs.Stat(p.root, path.Join("sys/class/net", iface, "wireless")); err == nil {
		return providers.InterfaceWifi
	}
	for _, prefix := range virtualPrefixes {
		if strings.HasPrefix(iface, prefix) {
			return providers.InterfaceProprietaryVirtual
		}
	}

	list, err := p.interfaces(ctx)
	if err != nil {
		return providers.InterfaceEthernet
	}
	for _, st := range list {
		if st.Name != iface {
			continue
		}
		switch {
		case slices.Contains(st.Flags, "loopback"):
			return providers.InterfaceLoopback
		case slices.Contains(st.Flags, "pointtopoint"), st.HardwareAddr == "":
			return providers.InterfaceProprietaryVirtual
		}
	}
	return providers.InterfaceEthernet
}

func (p *Provider) runSSIDCommand(ctx context.Context) (string, error) {
	if len(p.cfg.SSIDCommand) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, p.cfg.SSIDCommand[0], p.cfg.SSIDCommand[1:]...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// parseDefaultRoute returns the interface of the lowest-metric default route
// in /proc/net/route format.
func parseDefaultRoute(r io.Reader) (string, bool) {
	sc := bufio.NewScanner(r)
	best, bestMetric := "", -1
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 7 || fields[1] != "00000000" {
			continue
		}
		metric, err := strconv.Atoi(fields[6])
		if err != nil {
			continue
		}
		if bestMetric < 0 || metric < bestMetric {
			best, bestMetric = fields[0], metric
		}
	}
	return best, bestMetric >= 0
}

// parseWireless returns the link quality of iface from /proc/net/wireless
// scaled to 0-100 (the kernel reports it out of 70).
func parseWireless(r io.Reader, iface string) (float64, bool) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 || strings.TrimSuffix(fields[0], ":") != iface {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "."), 64)
		if err != nil {
			return 0, false
		}
		pct := q / 70 * 100
		if pct > 100 {
			pct = 100
		}
		return pct, true
	}
	return 0, false
}
