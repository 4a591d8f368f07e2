package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prodline-sim/prodline-sim/sim"
	"github.com/prodline-sim/prodline-sim/sim/history"
	"github.com/prodline-sim/prodline-sim/sim/trace"
)

// runOptions are the output controls of the run command.
type runOptions struct {
	format          string
	includeWaits    bool
	traceLevel      string
	traceMaxRecords int
	recordPath      string
}

var (
	runConfig  configFlags
	runOutputs runOptions
)

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the production line simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := runConfig.build(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := runOutputs.validate(); err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := runSimulation(cfg, runOutputs, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

func (o runOptions) validate() error {
	if err := validateFormat(o.format); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(o.traceLevel) {
		return fmt.Errorf("unknown trace level %q (want none or events)", o.traceLevel)
	}
	if o.traceMaxRecords < 0 {
		return fmt.Errorf("--trace-max-records must be >= 0, got %d", o.traceMaxRecords)
	}
	return nil
}

// runSimulation runs cfg and writes the report to out. Trace summaries and
// history IDs go to diag so that out stays machine-readable.
func runSimulation(cfg sim.SimulationConfig, opts runOptions, out, diag io.Writer) error {
	logrus.Infof("Starting simulation: duration=%.0f min, machines=%d/%d/%d, replications=%d, seed=%d",
		cfg.Duration, cfg.MouldingMachines, cfg.InspectionStations, cfg.PackagingMachines,
		cfg.Replications, cfg.Seed)

	stats, err := sim.Run(cfg)
	if err != nil {
		return err
	}
	if err := writeStatsReport(out, opts.format, stats, opts.includeWaits); err != nil {
		return err
	}

	if trace.TraceLevel(opts.traceLevel) == trace.TraceLevelEvents {
		tr := trace.NewSimulationTrace(trace.TraceConfig{
			Level:      trace.TraceLevelEvents,
			MaxRecords: opts.traceMaxRecords,
		})
		sim.RunSingle(cfg, sim.ReplicationKey(cfg.Seed, 0), tr)
		writeTraceSummary(diag, trace.Summarize(tr))
	}

	if opts.recordPath != "" {
		id, err := recordRun(opts.recordPath, cfg, stats)
		if err != nil {
			return err
		}
		fmt.Fprintf(diag, "Recorded run %s in %s\n", id, opts.recordPath)
	}
	logrus.Info("Simulation complete.")
	return nil
}

func recordRun(path string, cfg sim.SimulationConfig, stats *sim.SimulationStats) (string, error) {
	store, err := history.Open(path)
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.RecordRun(cfg, stats)
}

func init() {
	runConfig.register(runCmd)
	runCmd.Flags().StringVar(&runOutputs.format, "format", formatText, "Report format (text, json, yaml)")
	runCmd.Flags().BoolVar(&runOutputs.includeWaits, "include-waits", false, "Include raw per-job wait samples in the report")
	runCmd.Flags().StringVar(&runOutputs.traceLevel, "trace-level", string(trace.TraceLevelNone), "Trace replication 0 and print a summary (none, events)")
	runCmd.Flags().IntVar(&runOutputs.traceMaxRecords, "trace-max-records", 0, "Cap on trace records kept (0 = unlimited)")
	runCmd.Flags().StringVar(&runOutputs.recordPath, "record", "", "Append the report to this SQLite history database")

	rootCmd.AddCommand(runCmd)
}
