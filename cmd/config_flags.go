package cmd

import (
	"github.com/spf13/cobra"

	"github.com/prodline-sim/prodline-sim/sim"
)

// configFlags binds the simulation config fields to a command's flags.
// Values come from DefaultConfig, then the --config file, then any flag
// the user set explicitly.
type configFlags struct {
	path string
	cfg  sim.SimulationConfig
}

func (f *configFlags) register(cmd *cobra.Command) {
	d := sim.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.path, "config", "", "Path to a YAML simulation config; explicit flags override its values")
	fs.Float64Var(&f.cfg.Duration, "duration", d.Duration, "Simulated minutes per replication")
	fs.IntVar(&f.cfg.MouldingMachines, "moulding-machines", d.MouldingMachines, "Number of moulding machines")
	fs.IntVar(&f.cfg.InspectionStations, "inspection-stations", d.InspectionStations, "Number of inspection stations")
	fs.IntVar(&f.cfg.PackagingMachines, "packaging-machines", d.PackagingMachines, "Number of packaging machines")
	fs.Float64Var(&f.cfg.ArrivalIntervalMean, "arrival-interval-mean", d.ArrivalIntervalMean, "Mean minutes between job arrivals")
	fs.Float64Var(&f.cfg.DegradationCostPerMinute, "degradation-cost", d.DegradationCostPerMinute, "Cost per minute a part waits for inspection past the threshold")
	fs.Float64Var(&f.cfg.DegradationThreshold, "degradation-threshold", d.DegradationThreshold, "Minutes a part may wait for inspection before cost accrues")
	fs.IntVar(&f.cfg.Replications, "replications", d.Replications, "Number of independent replications")
	fs.Int64Var(&f.cfg.Seed, "seed", d.Seed, "Base seed; replication k uses seed+k")
	fs.IntVar(&f.cfg.Workers, "workers", d.Workers, "Replications run concurrently (0 = GOMAXPROCS)")
}

// build assembles and validates the effective config.
func (f *configFlags) build(cmd *cobra.Command) (sim.SimulationConfig, error) {
	cfg := sim.DefaultConfig()
	if f.path != "" {
		var err error
		if cfg, err = sim.LoadConfig(f.path); err != nil {
			return cfg, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("duration") {
		cfg.Duration = f.cfg.Duration
	}
	if fs.Changed("moulding-machines") {
		cfg.MouldingMachines = f.cfg.MouldingMachines
	}
	if fs.Changed("inspection-stations") {
		cfg.InspectionStations = f.cfg.InspectionStations
	}
	if fs.Changed("packaging-machines") {
		cfg.PackagingMachines = f.cfg.PackagingMachines
	}
	if fs.Changed("arrival-interval-mean") {
		cfg.ArrivalIntervalMean = f.cfg.ArrivalIntervalMean
	}
	if fs.Changed("degradation-cost") {
		cfg.DegradationCostPerMinute = f.cfg.DegradationCostPerMinute
	}
	if fs.Changed("degradation-threshold") {
		cfg.DegradationThreshold = f.cfg.DegradationThreshold
	}
	if fs.Changed("replications") {
		cfg.Replications = f.cfg.Replications
	}
	if fs.Changed("seed") {
		cfg.Seed = f.cfg.Seed
	}
	if fs.Changed("workers") {
		cfg.Workers = f.cfg.Workers
	}
	return cfg, cfg.Validate()
}
