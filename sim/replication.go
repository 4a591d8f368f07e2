package sim

import (
	"math"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/prodline-sim/prodline-sim/sim/trace"
)

// Run validates cfg, executes cfg.Replications independent replications
// and returns their aggregate. Replication k uses seed cfg.Seed+k.
func Run(cfg SimulationConfig) (*SimulationStats, error) {
	runs, err := RunReplications(cfg)
	if err != nil {
		return nil, err
	}
	agg := Aggregate(runs)
	logrus.Infof("Aggregated %d replication(s): completed=%d/%d throughput=%.2f/h cost=%.2f",
		agg.Replications, agg.CompletedJobs, agg.TotalJobs, agg.Throughput, agg.TotalDegradationCost)
	return &agg, nil
}

// RunReplications validates cfg and returns the per-replication stats,
// indexed by replication number. Replications run on up to cfg.Workers
// goroutines; the result does not depend on completion order.
func RunReplications(cfg SimulationConfig) ([]SimulationStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Replications
	results := make([]SimulationStats, n)
	parallelFor(n, cfg.Workers, func(k int) {
		results[k] = RunSingle(cfg, ReplicationKey(cfg.Seed, k), nil)
	})
	return results, nil
}

// RunSingle executes one replication with the given key and returns its
// stats. tr may be nil. cfg is assumed valid.
func RunSingle(cfg SimulationConfig, key SimulationKey, tr *trace.SimulationTrace) SimulationStats {
	s := NewSimulator(cfg, key)
	s.Trace = tr
	res := s.Run()
	stats := ComputeStats(cfg, res)
	if stats.CompletedJobs == 0 {
		logrus.Warnf("replication seed=%d completed no jobs within %.1f minutes", int64(key), cfg.Duration)
	}
	logrus.Infof("Replication seed=%d: jobs=%d completed=%d events=%d",
		int64(key), stats.TotalJobs, stats.CompletedJobs, res.EventCount)
	return stats
}

// parallelFor calls fn(i) for i in [0, n) on at most workers goroutines
// (0 = GOMAXPROCS). fn must only write state owned by index i.
func parallelFor(n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
}

// Aggregate combines per-replication stats. A single run is returned
// verbatim; an empty input yields zero stats.
//
// Scalar KPIs are cross-run means; lead time and cost get 95% intervals;
// wait samples are concatenated; per-stage avg and p90 are means of the
// per-run values while max is the max of per-run maxima; job counts are
// rounded means.
func Aggregate(runs []SimulationStats) SimulationStats {
	n := len(runs)
	switch n {
	case 0:
		return SimulationStats{}
	case 1:
		return runs[0]
	}

	agg := SimulationStats{Replications: n}
	leadTimes := make([]float64, n)
	costs := make([]float64, n)
	var totalJobs, completedJobs float64
	for i, r := range runs {
		totalJobs += float64(r.TotalJobs)
		completedJobs += float64(r.CompletedJobs)
		agg.Throughput += r.Throughput
		agg.AvgWIP += r.AvgWIP
		agg.ServiceLevel += r.ServiceLevel
		agg.AvgDegradationCostPerPart += r.AvgDegradationCostPerPart
		leadTimes[i] = r.AvgLeadTime
		costs[i] = r.TotalDegradationCost

		for _, s := range Stages {
			*agg.MachineUtilization.At(s) += *r.MachineUtilization.At(s)

			waits := agg.WaitTimes.At(s)
			*waits = append(*waits, *r.WaitTimes.At(s)...)

			ws, rws := agg.WaitStats.At(s), r.WaitStats.At(s)
			ws.Avg += rws.Avg
			ws.P90 += rws.P90
			if i == 0 || rws.Max > ws.Max {
				ws.Max = rws.Max
			}
		}
	}

	fn := float64(n)
	agg.TotalJobs = int(math.Round(totalJobs / fn))
	agg.CompletedJobs = int(math.Round(completedJobs / fn))
	agg.Throughput /= fn
	agg.AvgWIP /= fn
	agg.ServiceLevel /= fn
	agg.AvgDegradationCostPerPart /= fn
	for _, s := range Stages {
		*agg.MachineUtilization.At(s) /= fn
		ws := agg.WaitStats.At(s)
		ws.Avg /= fn
		ws.P90 /= fn
	}

	agg.LeadTimeCI = NewConfidenceInterval(leadTimes)
	agg.AvgLeadTime = agg.LeadTimeCI.Mean
	agg.CostCI = NewConfidenceInterval(costs)
	agg.TotalDegradationCost = agg.CostCI.Mean
	return agg
}
