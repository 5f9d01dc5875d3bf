package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lineforge/assembly-line-sim/internal/clock"
	"github.com/lineforge/assembly-line-sim/internal/config"
	lflog "github.com/lineforge/assembly-line-sim/internal/log"
	"github.com/lineforge/assembly-line-sim/internal/metrics"
	"github.com/lineforge/assembly-line-sim/internal/plc"
	"github.com/lineforge/assembly-line-sim/internal/tickformat"
	"github.com/lineforge/assembly-line-sim/internal/wire"
)

var (
	plcDuration time.Duration
	plcStep     time.Duration
)

var plcPorts = map[string]int{
	"S1": 6001, "S2": 6002, "S3": 6003, "S4": 6004, "S5": 6005, "S6": 6006,
}

var plcStations = []string{"S1", "S2", "S3", "S4", "S5", "S6"}

// plcCmd runs the PLC coordinator: listens for all six stations, runs the
// token-flow scheduler, and exchanges one frame per station per scan tick.
// Grounded on the teacher's cmd/start.go long-running daemon lifecycle,
// adapted from a single capture agent process to the line's central
// controller.
var plcCmd = &cobra.Command{
	Use:   "plc",
	Short: "Run the PLC supervisory coordinator",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPLC()
	},
}

func init() {
	plcCmd.Flags().DurationVar(&plcDuration, "duration", time.Hour, "total simulated run duration")
	plcCmd.Flags().DurationVar(&plcStep, "tick", 100*time.Millisecond, "scan tick period (simulated and real-time paced)")
}

func runPLC() error {
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
		Pattern:  "[%time] [%level] [plc] %msg\n",
		Time:     time.RFC3339,
		Level:    cfg.Log.Level,
		Appender: "stdout",
	})
	logger := lflog.GetLogger().WithField("domain", domain)

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := srv.Start(context.Background()); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer srv.Stop(context.Background())
	}

	transport, err := wire.ListenPLC(plcPorts, logger)
	if err != nil {
		exitWithError("listen", err)
	}
	defer transport.Close()

	coord := plc.NewCoordinator(logger)

	clk := clock.NewStub(uint64(plcDuration.Nanoseconds()), uint64(plcStep.Nanoseconds()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		clk.RequestStop()
	}()

	for !clk.StopRequested() {
		statuses := make(map[string]plc.StationStatus, len(plcStations))
		for _, st := range plcStations {
			statuses[st] = decodeStatus(transport, st)
		}

		cmds := coord.Tick(statuses)

		for _, st := range plcStations {
			buf := wire.EncodeSignalFrame(cmds[st])
			if err := transport.WriteFrame(st, buf); err != nil {
				logger.WithField("station", st).Debug("skipping TX, no learned peer yet")
			}
		}

		tickformat.WriteBlock(os.Stdout, "PLC", clk.NowNs(),
			[]tickformat.KV{{Key: "mode", Value: coord.Mode.String()}},
			[]tickformat.KV{
				{Key: "batch_id", Value: coord.BatchID},
				{Key: "buffers", Value: fmt.Sprint(coord.Buffers)},
			},
		)

		// A node that has been asked to stop advances its terminal tick by
		// step+1 ns rather than step, so a trailing partial tick is always
		// distinguishable from a regular scan period in the simulated clock.
		advanceNs := uint64(plcStep.Nanoseconds())
		if clk.StopRequested() {
			advanceNs++
		}
		clk.Advance(advanceNs)
		time.Sleep(plcStep)
	}

	return nil
}

// decodeStatus reads and decodes a station's most recent StatusFrame, if
// any arrived this tick. When no frame (or a malformed one) arrived it
// returns the zero StationStatus, which the coordinator treats as not
// ready, busy, faulted or done for this tick; the previous tick's status is
// not carried over.
func decodeStatus(t *wire.PLCTransport, station string) plc.StationStatus {
	wantLen := wire.StatusLenForStation(station)
	buf, ok := t.ReadFrame(station, wantLen)
	if !ok {
		return plc.StationStatus{}
	}

	switch station {
	case "S1":
		s, err := wire.DecodeS1Status(buf)
		if err != nil {
			return plc.StationStatus{}
		}
		return plc.StationStatus{Ready: s.Ready == 1, Busy: s.Busy == 1, Fault: s.Fault == 1, Done: s.Done == 1}
	case "S2":
		s, err := wire.DecodeS2Status(buf)
		if err != nil {
			return plc.StationStatus{}
		}
		return plc.StationStatus{Ready: s.Ready == 1, Busy: s.Busy == 1, Fault: s.Fault == 1, Done: s.Done == 1}
	case "S3":
		s, err := wire.DecodeS3Status(buf)
		if err != nil {
			return plc.StationStatus{}
		}
		return plc.StationStatus{Ready: s.Ready == 1, Busy: s.Busy == 1, Fault: s.Fault == 1, Done: s.Done == 1}
	case "S4":
		s, err := wire.DecodeS4Status(buf)
		if err != nil {
			return plc.StationStatus{}
		}
		return plc.StationStatus{Ready: s.Ready == 1, Busy: s.Busy == 1, Fault: s.Fault == 1, Done: s.Done == 1}
	case "S5":
		s, err := wire.DecodeS5Status(buf)
		if err != nil {
			return plc.StationStatus{}
		}
		return plc.StationStatus{Ready: s.Ready == 1, Busy: s.Busy == 1, Fault: s.Fault == 1, Done: s.Done == 1, LastAccept: s.LastAccept == 1}
	case "S6":
		s, err := wire.DecodeS6Status(buf)
		if err != nil {
			return plc.StationStatus{}
		}
		return plc.StationStatus{Ready: s.Ready == 1, Busy: s.Busy == 1, Fault: s.Fault == 1, Done: s.Done == 1}
	}
	return plc.StationStatus{}
}
