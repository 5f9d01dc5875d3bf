// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags shared by the plc and station subcommands.
	configFile string
	serverURL  string
	domain     string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lineforge",
	Short: "Lineforge - six-station 3D-printer assembly line cyber-physical simulator",
	Long: `Lineforge simulates a six-station 3D-printer assembly line as a
cyber-physical discrete-event system with a PLC supervisory controller.

Each station runs its own stochastic multi-stage cycle model and exchanges
fixed-layout binary frames with the PLC coordinator over TCP on a simulated
scan-tick clock. The PLC drives the line through a reset/run/fault-recover
state machine, enforces a token-based handoff pipeline between stations,
and accounts batches.

Run the coordinator with "lineforge plc" and one instance of each station
with "lineforge station --id S1" .. "lineforge station --id S6".`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/lineforge/config.json",
		"line configuration file path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "127.0.0.1",
		"PLC host the station dials (the plc listens on all interfaces)")
	rootCmd.PersistentFlags().StringVar(&domain, "domain", "AF_UNIX",
		"address family the node reports as, AF_UNIX or AF_INET (transport is always TCP; see DESIGN.md)")

	rootCmd.AddCommand(plcCmd)
	rootCmd.AddCommand(stationCmd)
}

// validateDomain enforces the CLI contract's enum for --domain: AF_UNIX or
// AF_INET, carried from original_source/PLC_LineCoordinator.py's socket
// family selector. The value is accepted and logged but does not change the
// transport, which is always TCP per the wire protocol (see DESIGN.md).
func validateDomain(d string) error {
	switch d {
	case "AF_UNIX", "AF_INET":
		return nil
	default:
		return fmt.Errorf("invalid --domain %q, want AF_UNIX or AF_INET", d)
	}
}

// exitWithError prints error message and exits with code 1.
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
