package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prodline-sim/prodline-sim/sim"
	"github.com/prodline-sim/prodline-sim/sim/history"
)

var (
	sweepConfig     configFlags
	sweepVariable   string
	sweepFormat     string
	sweepRecordPath string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep one stage's server count from 1 to 10",
	Long: "Runs the simulation once per server count (1..10) of the chosen stage, holding every other " +
		"parameter fixed, and reports degradation cost and average wait before that stage. " +
		"Replications per point are capped at 5.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := sweepConfig.build(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		variable, err := sim.ParseStage(sweepVariable)
		if err != nil {
			logrus.Fatalf("Invalid --variable: %v", err)
		}
		if err := validateFormat(sweepFormat); err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := runSweep(cfg, variable, sweepFormat, sweepRecordPath, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
	},
}

func runSweep(cfg sim.SimulationConfig, variable sim.Stage, format, recordPath string, out, diag io.Writer) error {
	points, err := sim.Sweep(cfg, variable)
	if err != nil {
		return err
	}
	if err := writeSweepReport(out, format, points); err != nil {
		return err
	}
	if recordPath != "" {
		store, err := history.Open(recordPath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.RecordSweep(cfg, points)
		if err != nil {
			return err
		}
		fmt.Fprintf(diag, "Recorded sweep %s in %s\n", id, recordPath)
	}
	return nil
}

func init() {
	sweepConfig.register(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepVariable, "variable", sim.StageInspection.String(), "Stage whose server count is swept (moulding, inspection, packaging)")
	sweepCmd.Flags().StringVar(&sweepFormat, "format", formatText, "Report format (text, json, yaml)")
	sweepCmd.Flags().StringVar(&sweepRecordPath, "record", "", "Append the sweep to this SQLite history database")

	rootCmd.AddCommand(sweepCmd)
}
