package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/dispatch"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// SourceHealth is one source's runtime status.
type SourceHealth struct {
	Name       string  `json:"name"`
	Healthy    bool    `json:"healthy"`
	LastRun    string  `json:"lastRun,omitempty"`
	LastError  string  `json:"lastError,omitempty"`
	RunCount   int64   `json:"runCount"`
	ErrorCount int64   `json:"errorCount"`
	LatencyMS  float64 `json:"latencyMs"`
}

// HealthStatus is the STATUS response.
type HealthStatus struct {
	PID             int            `json:"pid"`
	Uptime          string         `json:"uptime"`
	SnapshotVersion uint64         `json:"snapshotVersion"`
	Sources         []SourceHealth `json:"sources"`
	Commands        dispatch.Stats `json:"commands"`
}

// BuildHealth collects the status of every source.
func BuildHealth(statuses []providers.ProviderStatus, cmds dispatch.Stats, version uint64, started time.Time) *HealthStatus {
	h := &HealthStatus{
		PID:             os.Getpid(),
		Uptime:          time.Since(started).Truncate(time.Second).String(),
		SnapshotVersion: version,
		Sources:         make([]SourceHealth, 0, len(statuses)),
		Commands:        cmds,
	}
	for _, s := range statuses {
		sh := SourceHealth{
			Name:       s.Name,
			Healthy:    s.Healthy,
			RunCount:   s.RunCount,
			ErrorCount: s.ErrorCount,
			LatencyMS:  float64(s.LastLatency.Microseconds()) / 1000,
		}
		if !s.LastRun.IsZero() {
			sh.LastRun = s.LastRun.Format(time.RFC3339)
		}
		if s.LastError != nil {
			sh.LastError = s.LastError.Error()
		}
		h.Sources = append(h.Sources, sh)
	}
	return h
}

// healthStatusToJSON serializes a HealthStatus to indented JSON string.
func healthStatusToJSON(status *HealthStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal health status: %w", err)
	}
	return string(data), nil
}
