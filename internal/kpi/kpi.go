// Package kpi exports a station's end-of-run KPI snapshot to a JSON file,
// per spec.md §4.5. Grounded on the teacher's
// plugins/reporter/console/console.go json.Marshal-to-file reporting
// style, adapted from a per-packet capture report to an end-of-simulation
// summary.
package kpi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot is the KPI schema written at a station's normal termination.
// The schema is open-ended per spec.md §4.5 ("other stations MAY export
// equivalent files"); Config is a verbatim copy of whatever config value
// the caller loaded.
type Snapshot struct {
	SimSeconds           float64 `json:"sim_seconds"`
	ThroughputPerHour    float64 `json:"throughput_per_hour"`
	UtilizationPercent   float64 `json:"utilization_percent"`
	Availability         float64 `json:"availability"`
	CatastrophicFailures uint32  `json:"catastrophic_failures"`
	TotalDowntimeS       float64 `json:"total_downtime_s"`
	Config               any     `json:"config"`
}

// BuildSnapshot computes the derived KPI fields from raw counters.
// unitsCompleted and busyS are the station's own completed-cycle count and
// accumulated operational time; simSeconds is the simulated time elapsed
// (ns clock / 1e9).
func BuildSnapshot(unitsCompleted uint32, busyS, simSeconds, downtimeS, availability float64, catastrophicFailures uint32, cfg any) Snapshot {
	var throughput, utilization float64
	if simSeconds > 0 {
		throughput = float64(unitsCompleted) / simSeconds * 3600.0
		utilization = busyS / simSeconds * 100.0
	}
	return Snapshot{
		SimSeconds:           simSeconds,
		ThroughputPerHour:    throughput,
		UtilizationPercent:   utilization,
		Availability:         availability,
		CatastrophicFailures: catastrophicFailures,
		TotalDowntimeS:       downtimeS,
		Config:               cfg,
	}
}

// WriteSnapshot writes snap to "<dir>/<station>_kpis_<sim_seconds>.json"
// and returns the path written.
func WriteSnapshot(dir, station string, snap Snapshot) (string, error) {
	name := fmt.Sprintf("%s_kpis_%d.json", station, int64(snap.SimSeconds))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("kpi: marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("kpi: write %s: %w", path, err)
	}
	return path, nil
}
