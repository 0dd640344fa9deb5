// Package weather polls the Open-Meteo forecast API for the current
// condition and temperature.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// DefaultBaseURL is the public Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Config controls the weather source.
type Config struct {
	Latitude  float64
	Longitude float64
	Interval  time.Duration
	BaseURL   string
	Client    *http.Client
}

// DefaultConfig returns a Config with sensible defaults. Coordinates must be
// set by the caller.
func DefaultConfig() Config {
	return Config{
		Interval: 15 * time.Minute,
		BaseURL:  DefaultBaseURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Provider is the "weather" source.
type Provider struct {
	cfg    Config
	failed atomic.Bool
}

// New creates the weather source.
func New(cfg Config) *Provider {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Client == nil {
		cfg.Client = def.Client
	}
	return &Provider{cfg: cfg}
}

// Name returns the source name.
func (p *Provider) Name() string { return "weather" }

// Interval returns the polling interval.
func (p *Provider) Interval() time.Duration { return p.cfg.Interval }

// Healthy reports whether the last request succeeded.
func (p *Provider) Healthy() bool { return !p.failed.Load() }

type forecast struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
		IsDay       int     `json:"is_day"`
	} `json:"current"`
}

// Collect fetches the current conditions.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	v, err := p.fetch(ctx)
	p.failed.Store(err != nil)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	return v, nil
}

func (p *Provider) fetch(ctx context.Context) (providers.Value, error) {
	u, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(p.cfg.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(p.cfg.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,weather_code,is_day")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var f forecast
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return providers.Weather{
		Status:      Status(f.Current.WeatherCode, f.Current.IsDay != 0),
		CelsiusTemp: f.Current.Temperature,
	}, nil
}

// Status maps a WMO weather interpretation code onto a condition tag. Codes
// outside the table return "" which renders without an icon.
func Status(code int, isDay bool) providers.WeatherStatus {
	var base string
	switch {
	case code == 0 || code == 1:
		base = "clear"
	case code == 2 || code == 3 || code == 45 || code == 48:
		base = "cloudy"
	case code >= 51 && code <= 57, code == 61, code == 80:
		base = "light_rain"
	case code == 63 || code == 65 || code == 66 || code == 67 || code == 81 || code == 82:
		base = "heavy_rain"
	case code >= 71 && code <= 77, code == 85, code == 86:
		base = "snow"
	case code >= 95 && code <= 99:
		base = "thunder"
	default:
		return ""
	}
	if isDay {
		return providers.WeatherStatus(base + "_day")
	}
	return providers.WeatherStatus(base + "_night")
}
