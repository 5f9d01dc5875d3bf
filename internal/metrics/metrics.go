// Package metrics implements Prometheus metrics for the assembly line
// simulator: per-station cycle counters, buffer occupancy, and PLC mode,
// grounded on the teacher's capture-pipeline metric set (same
// promauto/CounterVec/GaugeVec/HistogramVec shapes, renamed to the
// station/PLC domain).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StationCyclesTotal counts completed cycles per station, split by outcome
	// (passed, failed).
	StationCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembly_line_station_cycles_total",
			Help: "Total number of completed station cycles by outcome",
		},
		[]string{"station", "outcome"},
	)

	// StationFaultsTotal counts fault-latch events per station.
	StationFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembly_line_station_faults_total",
			Help: "Total number of fault-latch events observed for a station",
		},
		[]string{"station"},
	)

	// StationCycleTimeSeconds measures completed cycle duration per station.
	StationCycleTimeSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assembly_line_station_cycle_time_seconds",
			Help:    "Duration of completed station cycles in simulated seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~1024s
		},
		[]string{"station"},
	)

	// StationBusy tracks the current busy state of a station (0 or 1).
	StationBusy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assembly_line_station_busy",
			Help: "Current busy state of a station (1=busy, 0=idle)",
		},
		[]string{"station"},
	)

	// StationAvailability tracks each station's running availability ratio.
	StationAvailability = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assembly_line_station_availability_ratio",
			Help: "Running availability ratio of a station (operational_time / (operational_time + downtime))",
		},
		[]string{"station"},
	)

	// BufferOccupancy tracks the current token count of an inter-station buffer.
	BufferOccupancy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assembly_line_buffer_occupancy",
			Help: "Current token occupancy of an inter-station handoff buffer",
		},
		[]string{"from", "to"},
	)

	// PLCMode tracks the coordinator's current supervisory mode as a gauge
	// (0=RESET_ALL, 1=RUN, 2=FAULT_RESET), see the ModeStatus* constants below.
	PLCMode = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assembly_line_plc_mode",
			Help: "Current PLC coordinator mode (0=RESET_ALL, 1=RUN, 2=FAULT_RESET)",
		},
	)

	// BatchID tracks the coordinator's running batch counter.
	BatchID = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assembly_line_batch_id",
			Help: "Current batch identifier incremented on each completed unit at final packaging",
		},
	)

	// WireFrameErrorsTotal counts malformed or short wire frames observed by
	// a peer, by direction and reason.
	WireFrameErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembly_line_wire_frame_errors_total",
			Help: "Total number of malformed or undersized wire frames observed",
		},
		[]string{"peer", "reason"},
	)
)

// The ModeStatus* constants represent PLC coordinator mode as a numeric
// value for the PLCMode Prometheus gauge.
const (
	ModeStatusResetAll   = 0
	ModeStatusRun        = 1
	ModeStatusFaultReset = 2
)
