package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lineforge/assembly-line-sim/internal/clock"
	"github.com/lineforge/assembly-line-sim/internal/config"
	"github.com/lineforge/assembly-line-sim/internal/kpi"
	lflog "github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/station"
	"github.com/lineforge/assembly-line-sim/internal/tickformat"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

var (
	stationID       string
	stationDuration time.Duration
	stationStep     time.Duration
	stationSeed     int64
	stationKPIDir   string
)

// stationCmd runs a single station emulator: one process per station that
// dials the PLC's assigned port, steps its stage generator on a fixed scan
// tick, and reports status frames back. Grounded on the teacher's
// cmd/start.go agent-process lifecycle (load config, init logging, run
// until signaled, drain and exit).
var stationCmd = &cobra.Command{
	Use:   "station",
	Short: "Run a single station emulator (S1..S6)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStation()
	},
}

func init() {
	stationCmd.Flags().StringVar(&stationID, "id", "", "station id (S1..S6), required")
	stationCmd.Flags().DurationVar(&stationDuration, "duration", time.Hour, "total simulated run duration")
	stationCmd.Flags().DurationVar(&stationStep, "tick", 100*time.Millisecond, "scan tick period (simulated and real-time paced)")
	stationCmd.Flags().Int64Var(&stationSeed, "seed", 0, "RNG seed (0 derives one from the station id)")
	stationCmd.Flags().StringVar(&stationKPIDir, "kpi-dir", ".", "directory to write the KPI snapshot into at shutdown")
	stationCmd.MarkFlagRequired("id")
}

var stationPorts = map[string]int{
	"S1": 6001, "S2": 6002, "S3": 6003, "S4": 6004, "S5": 6005, "S6": 6006,
}

func runStation() error {
	if _, ok := stationPorts[stationID]; !ok {
		return fmt.Errorf("unknown station id %q, want one of S1..S6", stationID)
	}
	if err := validateDomain(domain); err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := lflog.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	lflog.InitComponent(&lflog.LoggerConfig{
		Pattern:  "[%time] [%level] [" + stationID + "] %msg\n",
		Time:     time.RFC3339,
		Level:    cfg.Log.Level,
		Appender: "stdout",
	})
	logger := lflog.GetLogger().WithField("domain", domain)

	sc := cfg.Stations[stationID]
	seed := stationSeed
	if seed == 0 {
		seed = seedForStation(stationID)
	}

	conn, err := wire.DialStation(serverURL, stationPorts[stationID])
	if err != nil {
		exitWithError("dial plc", err)
	}
	defer conn.Close()

	rt := newStationRuntime(stationID, sc, seed, logger)

	clk := clock.NewStub(uint64(stationDuration.Nanoseconds()), uint64(stationStep.Nanoseconds()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		clk.RequestStop()
	}()

	var lastCmd wire.SignalFrame
	for !clk.StopRequested() {
		if cmd, ok := conn.ReadCommand(); ok {
			lastCmd = cmd
		}

		rt.tick(lastCmd, stationStep.Seconds())

		buf := rt.encode()
		if err := conn.WriteStatus(buf); err != nil {
			logger.WithError(err).Warn("write status failed")
		}

		tickformat.WriteBlock(os.Stdout, stationID, clk.NowNs(),
			[]tickformat.KV{
				{Key: "cmd_start", Value: lastCmd.CmdStart},
				{Key: "cmd_stop", Value: lastCmd.CmdStop},
				{Key: "cmd_reset", Value: lastCmd.CmdReset},
				{Key: "batch_id", Value: lastCmd.BatchID},
				{Key: "recipe_id", Value: lastCmd.RecipeID},
			},
			rt.outputsKV(),
		)

		// A node that has been asked to stop advances its terminal tick by
		// step+1 ns rather than step, so a trailing partial tick is always
		// distinguishable from a regular scan period in the simulated clock.
		advanceNs := uint64(stationStep.Nanoseconds())
		if clk.StopRequested() {
			advanceNs++
		}
		clk.Advance(advanceNs)
		time.Sleep(stationStep)
	}

	if stationID == "S6" {
		if err := writeS6KPI(rt, clk, cfg); err != nil {
			logger.WithError(err).Warn("writing KPI snapshot failed")
		}
	}

	return nil
}

func seedForStation(id string) int64 {
	var h int64
	for _, r := range id {
		h = h*31 + int64(r)
	}
	if h == 0 {
		h = 1
	}
	return h
}

func writeS6KPI(rt *stationRuntime, clk *clock.Stub, cfg *config.LineConfig) error {
	r := rt.s6
	if r == nil {
		return nil
	}
	simSeconds := float64(clk.NowNs()) / 1e9
	snap := kpi.BuildSnapshot(
		r.PackagesCompleted,
		r.Core.OperationalTimeS,
		simSeconds,
		r.Core.DowntimeS,
		r.Core.Availability(),
		r.Core.Total-r.Core.Completed,
		cfg,
	)
	_, err := kpi.WriteSnapshot(stationKPIDir, stationID, snap)
	return err
}

// stationRuntime wraps exactly one of the six concrete station runtimes so
// the scan loop above can stay station-agnostic.
type stationRuntime struct {
	s1 *station.S1Runtime
	s2 *station.S2Runtime
	s3 *station.S3Runtime
	s4 *station.S4Runtime
	s5 *station.S5Runtime
	s6 *station.S6Runtime
}

func newStationRuntime(id string, sc config.StationConfig, seed int64, logger lflog.Logger) *stationRuntime {
	rt := &stationRuntime{}
	switch id {
	case "S1":
		rt.s1 = station.NewS1Runtime(sc.FailureRate, seed, logger)
	case "S2":
		rt.s2 = station.NewS2Runtime(sc.FailureRate, sc.FailureRate/2, seed, logger)
	case "S3":
		rt.s3 = station.NewS3Runtime(sc.FailureRate, seed, logger)
	case "S4":
		rt.s4 = station.NewS4Runtime(seed, logger)
	case "S5":
		rt.s5 = station.NewS5Runtime(seed, logger)
	case "S6":
		rt.s6 = station.NewS6Runtime(sc.FailureRate, seed, logger)
	}
	return rt
}

func (rt *stationRuntime) tick(cmd wire.SignalFrame, dtS float64) {
	switch {
	case rt.s1 != nil:
		rt.s1.Tick(cmd, dtS)
	case rt.s2 != nil:
		rt.s2.Tick(cmd, dtS)
	case rt.s3 != nil:
		rt.s3.Tick(cmd, dtS)
	case rt.s4 != nil:
		rt.s4.Tick(cmd, dtS)
	case rt.s5 != nil:
		rt.s5.Tick(cmd, dtS)
	case rt.s6 != nil:
		rt.s6.Tick(cmd, dtS)
	}
}

func (rt *stationRuntime) encode() []byte {
	switch {
	case rt.s1 != nil:
		return wire.EncodeS1Status(rt.s1.Status())
	case rt.s2 != nil:
		return wire.EncodeS2Status(rt.s2.Status())
	case rt.s3 != nil:
		return wire.EncodeS3Status(rt.s3.Status())
	case rt.s4 != nil:
		return wire.EncodeS4Status(rt.s4.Status())
	case rt.s5 != nil:
		return wire.EncodeS5Status(rt.s5.Status())
	case rt.s6 != nil:
		return wire.EncodeS6Status(rt.s6.Status())
	}
	return nil
}

func (rt *stationRuntime) outputsKV() []tickformat.KV {
	switch {
	case rt.s1 != nil:
		s := rt.s1.Status()
		return []tickformat.KV{
			{Key: "ready", Value: s.Ready}, {Key: "busy", Value: s.Busy},
			{Key: "fault", Value: s.Fault}, {Key: "done", Value: s.Done},
			{Key: "inventory_ok", Value: s.InventoryOK}, {Key: "any_arm_failed", Value: s.AnyArmFailed},
		}
	case rt.s2 != nil:
		s := rt.s2.Status()
		return []tickformat.KV{
			{Key: "ready", Value: s.Ready}, {Key: "busy", Value: s.Busy},
			{Key: "fault", Value: s.Fault}, {Key: "done", Value: s.Done},
			{Key: "completed", Value: s.Completed}, {Key: "scrapped", Value: s.Scrapped},
			{Key: "reworks", Value: s.Reworks}, {Key: "cycle_time_avg_s", Value: strconv.FormatFloat(s.CycleTimeAvgS, 'f', 2, 64)},
		}
	case rt.s3 != nil:
		s := rt.s3.Status()
		return []tickformat.KV{
			{Key: "ready", Value: s.Ready}, {Key: "busy", Value: s.Busy},
			{Key: "fault", Value: s.Fault}, {Key: "done", Value: s.Done},
			{Key: "strain_relief_ok", Value: s.StrainReliefOK}, {Key: "continuity_ok", Value: s.ContinuityOK},
		}
	case rt.s4 != nil:
		s := rt.s4.Status()
		return []tickformat.KV{
			{Key: "ready", Value: s.Ready}, {Key: "busy", Value: s.Busy},
			{Key: "fault", Value: s.Fault}, {Key: "done", Value: s.Done},
			{Key: "total", Value: s.Total}, {Key: "completed", Value: s.Completed},
		}
	case rt.s5 != nil:
		s := rt.s5.Status()
		return []tickformat.KV{
			{Key: "ready", Value: s.Ready}, {Key: "busy", Value: s.Busy},
			{Key: "fault", Value: s.Fault}, {Key: "done", Value: s.Done},
			{Key: "accept", Value: s.Accept}, {Key: "reject", Value: s.Reject},
			{Key: "last_accept", Value: s.LastAccept},
		}
	case rt.s6 != nil:
		s := rt.s6.Status()
		return []tickformat.KV{
			{Key: "ready", Value: s.Ready}, {Key: "busy", Value: s.Busy},
			{Key: "fault", Value: s.Fault}, {Key: "done", Value: s.Done},
			{Key: "packages_completed", Value: s.PackagesCompleted}, {Key: "arm_cycles", Value: s.ArmCycles},
			{Key: "total_repairs", Value: s.TotalRepairs},
		}
	}
	return nil
}
