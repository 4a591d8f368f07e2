package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prodline-sim/prodline-sim/sim"
	"github.com/prodline-sim/prodline-sim/sim/history"
	"github.com/prodline-sim/prodline-sim/sim/trace"
)

// Report output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// writeEncoded writes v as indented JSON or as YAML.
func writeEncoded(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	}
	return validateFormat(format)
}

// writeStatsReport renders a run's KPIs. Raw wait samples are dropped
// unless includeWaits is set.
func writeStatsReport(w io.Writer, format string, stats *sim.SimulationStats, includeWaits bool) error {
	out := *stats
	if !includeWaits {
		out.WaitTimes = sim.PerStage[[]float64]{}
	}
	if format != formatText {
		return writeEncoded(w, format, &out)
	}

	fmt.Fprintln(w, "=== Production Line KPIs ===")
	fmt.Fprintf(w, "Replications          : %d\n", out.Replications)
	fmt.Fprintf(w, "Jobs Arrived          : %d\n", out.TotalJobs)
	fmt.Fprintf(w, "Jobs Completed        : %d\n", out.CompletedJobs)
	fmt.Fprintf(w, "Throughput            : %.2f jobs/h\n", out.Throughput)
	fmt.Fprintf(w, "Average WIP           : %.2f\n", out.AvgWIP)
	fmt.Fprintf(w, "Service Level         : %.1f%%\n", out.ServiceLevel*100)
	fmt.Fprintf(w, "Average Lead Time     : %.2f min %s\n", out.AvgLeadTime, formatCI(out.LeadTimeCI, out.Replications))
	fmt.Fprintf(w, "Degradation Cost      : %.2f %s\n", out.TotalDegradationCost, formatCI(out.CostCI, out.Replications))
	fmt.Fprintf(w, "Cost per Part         : %.2f\n", out.AvgDegradationCostPerPart)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-12s %10s %10s %10s %12s\n", "Stage", "Avg Wait", "P90 Wait", "Max Wait", "Utilization")
	for _, s := range sim.Stages {
		ws := out.WaitStats.At(s)
		fmt.Fprintf(w, "%-12s %10.2f %10.2f %10.2f %11.1f%%\n",
			s, ws.Avg, ws.P90, ws.Max, *out.MachineUtilization.At(s)*100)
	}
	if includeWaits {
		for _, s := range sim.Stages {
			fmt.Fprintf(w, "Waits before %-10s: %v\n", s, *out.WaitTimes.At(s))
		}
	}
	return nil
}

func formatCI(ci sim.ConfidenceInterval, replications int) string {
	if replications < 2 {
		return ""
	}
	return fmt.Sprintf("(95%% CI %.2f .. %.2f)", ci.Lower, ci.Upper)
}

// writeSweepReport renders one row per sweep point.
func writeSweepReport(w io.Writer, format string, points []sim.SensitivityPoint) error {
	if format != formatText {
		return writeEncoded(w, format, points)
	}
	fmt.Fprintln(w, "=== Sensitivity Sweep ===")
	fmt.Fprintf(w, "%-16s %8s %14s %10s\n", "Point", "Servers", "Cost", "Avg Wait")
	for _, p := range points {
		fmt.Fprintf(w, "%-16s %8d %14.2f %10.2f\n", p.Label, p.XValue, p.Cost, p.AvgWait)
	}
	return nil
}

// writeTraceSummary prints the trace of one replication.
func writeTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Event Trace (replication 0) ===")
	fmt.Fprintf(w, "Events Recorded       : %d\n", summary.TotalEvents)
	if summary.DroppedCount > 0 {
		fmt.Fprintf(w, "Events Dropped        : %d\n", summary.DroppedCount)
	}
	for _, kind := range eventKinds() {
		if n, ok := summary.KindCounts[kind]; ok {
			fmt.Fprintf(w, "  %-20s: %d\n", kind, n)
		}
	}
	fmt.Fprintf(w, "Peak WIP              : %d\n", summary.PeakWIP)
	for i, q := range summary.PeakQueues {
		fmt.Fprintf(w, "Peak Queue %-11s: %d\n", sim.Stages[i], q)
	}
	fmt.Fprintf(w, "Last Event At         : %.2f min\n", summary.LastEventAt)
}

func eventKinds() []string {
	kinds := []string{sim.EventArrival.String()}
	for _, s := range sim.Stages {
		kinds = append(kinds, sim.FinishEventType(s).String())
	}
	return kinds
}

// historyView is the encoded form of a history entry.
type historyView struct {
	ID        string                 `json:"id" yaml:"id"`
	Kind      history.Kind           `json:"kind" yaml:"kind"`
	CreatedAt time.Time              `json:"createdAt" yaml:"created_at"`
	Config    sim.SimulationConfig   `json:"config" yaml:"config"`
	Stats     *sim.SimulationStats   `json:"stats,omitempty" yaml:"stats,omitempty"`
	Points    []sim.SensitivityPoint `json:"points,omitempty" yaml:"points,omitempty"`
}

func writeHistoryList(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}
	fmt.Fprintf(w, "%-20s %-6s %-20s %12s %14s %9s\n", "ID", "Kind", "Recorded", "Throughput", "Cost", "Service")
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s %-6s %-20s %12.2f %14.2f %8.1f%%\n",
			e.ID, e.Kind, e.CreatedAt.Format(time.DateTime), e.Throughput, e.TotalCost, e.ServiceLevel*100)
	}
}

func writeHistoryEntry(w io.Writer, format string, e history.Entry) error {
	if format != formatText {
		return writeEncoded(w, format, historyView{
			ID: e.ID, Kind: e.Kind, CreatedAt: e.CreatedAt,
			Config: e.Config, Stats: e.Stats, Points: e.Points,
		})
	}
	fmt.Fprintf(w, "Run %s (%s) recorded %s\n", e.ID, e.Kind, e.CreatedAt.Format(time.DateTime))
	fmt.Fprintf(w, "Config: duration=%.0f machines=%d/%d/%d arrival=%.2f cost=%.2f threshold=%.2f replications=%d seed=%d\n\n",
		e.Config.Duration, e.Config.MouldingMachines, e.Config.InspectionStations, e.Config.PackagingMachines,
		e.Config.ArrivalIntervalMean, e.Config.DegradationCostPerMinute, e.Config.DegradationThreshold,
		e.Config.Replications, e.Config.Seed)
	switch e.Kind {
	case history.KindSweep:
		return writeSweepReport(w, format, e.Points)
	default:
		return writeStatsReport(w, format, e.Stats, false)
	}
}
