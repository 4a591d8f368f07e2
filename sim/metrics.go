// Defines the KPI snapshot of a run or of an aggregation of runs, and the
// calculator that derives it from a finished run.

package sim

// WaitStats summarises a wait-time sample (minutes).
type WaitStats struct {
	Avg float64 `json:"avg" yaml:"avg"`
	P90 float64 `json:"p90" yaml:"p90"`
	Max float64 `json:"max" yaml:"max"`
}

// ConfidenceInterval is a 95% interval around a cross-replication mean.
type ConfidenceInterval struct {
	Mean  float64 `json:"mean" yaml:"mean"`
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// PerStage holds one value per stage.
type PerStage[T any] struct {
	Moulding   T `json:"moulding" yaml:"moulding"`
	Inspection T `json:"inspection" yaml:"inspection"`
	Packaging  T `json:"packaging" yaml:"packaging"`
}

// At returns a pointer to the value for stage s.
func (p *PerStage[T]) At(s Stage) *T {
	switch s {
	case StageMoulding:
		return &p.Moulding
	case StageInspection:
		return &p.Inspection
	default:
		return &p.Packaging
	}
}

// SimulationStats is the complete KPI snapshot handed to callers.
// It is produced once per run or aggregation and never mutated afterwards.
type SimulationStats struct {
	TotalJobs     int     `json:"totalJobs" yaml:"total_jobs"`
	CompletedJobs int     `json:"completedJobs" yaml:"completed_jobs"`
	Throughput    float64 `json:"throughput" yaml:"throughput"` // completed jobs per hour
	AvgWIP        float64 `json:"avgWip" yaml:"avg_wip"`
	ServiceLevel  float64 `json:"serviceLevel" yaml:"service_level"`

	AvgLeadTime float64            `json:"avgLeadTime" yaml:"avg_lead_time"`
	LeadTimeCI  ConfidenceInterval `json:"leadTimeCI" yaml:"lead_time_ci"`

	TotalDegradationCost      float64            `json:"totalDegradationCost" yaml:"total_degradation_cost"`
	AvgDegradationCostPerPart float64            `json:"avgDegradationCostPerPart" yaml:"avg_degradation_cost_per_part"`
	CostCI                    ConfidenceInterval `json:"costCI" yaml:"cost_ci"`

	WaitTimes          PerStage[[]float64] `json:"waitTimes" yaml:"wait_times,omitempty"`
	WaitStats          PerStage[WaitStats] `json:"waitStats" yaml:"wait_stats"`
	MachineUtilization PerStage[float64]   `json:"machineUtilization" yaml:"machine_utilization"`

	Replications int `json:"replications" yaml:"replications"`
}

// ComputeStats derives the KPI snapshot of a single finished run.
func ComputeStats(cfg SimulationConfig, res *RunResult) SimulationStats {
	stats := SimulationStats{
		TotalJobs:    len(res.Jobs),
		Replications: 1,
	}

	leadTimes := make([]float64, 0, len(res.Jobs))
	for i := range res.Jobs {
		job := &res.Jobs[i]
		for _, s := range Stages {
			if w, ok := job.Wait(s); ok {
				waits := stats.WaitTimes.At(s)
				*waits = append(*waits, w)
			}
		}
		if lt, ok := job.LeadTime(); ok {
			leadTimes = append(leadTimes, lt)
		}
	}
	stats.CompletedJobs = len(leadTimes)

	// degradation accrues only while waiting for inspection, past the grace period
	inspectionWaits := stats.WaitTimes.Inspection
	onTime := 0
	for _, w := range inspectionWaits {
		stats.TotalDegradationCost += max(0, w-cfg.DegradationThreshold) * cfg.DegradationCostPerMinute
		if w < ServiceLevelThreshold {
			onTime++
		}
	}
	stats.AvgDegradationCostPerPart = safeDivide(stats.TotalDegradationCost, float64(stats.TotalJobs))
	stats.ServiceLevel = safeDivide(float64(onTime), float64(len(inspectionWaits)))

	stats.AvgLeadTime = CalculateMean(leadTimes)
	stats.Throughput = safeDivide(float64(stats.CompletedJobs), res.Duration/60)
	stats.AvgWIP = safeDivide(res.WIPArea, res.Duration)

	for _, s := range Stages {
		*stats.WaitStats.At(s) = NewWaitStats(*stats.WaitTimes.At(s))
		*stats.MachineUtilization.At(s) = safeDivide(res.BusyTime[s], res.Duration*float64(res.Servers[s]))
	}

	stats.LeadTimeCI = PointEstimate(stats.AvgLeadTime)
	stats.CostCI = PointEstimate(stats.TotalDegradationCost)
	return stats
}
