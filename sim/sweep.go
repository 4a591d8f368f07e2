package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SweepMin and SweepMax bound the server counts tried by Sweep (inclusive).
const (
	SweepMin = 1
	SweepMax = 10

	// sweepMaxReplications caps replications per sweep point.
	sweepMaxReplications = 5
)

// SensitivityPoint is one row of a sensitivity sweep.
type SensitivityPoint struct {
	Label    string  `json:"label" yaml:"label"`
	XValue   int     `json:"xValue" yaml:"x_value"`
	Cost     float64 `json:"cost" yaml:"cost"`       // mean total degradation cost
	AvgWait  float64 `json:"avgWait" yaml:"avg_wait"` // mean wait before the swept stage
	Variable string  `json:"variable" yaml:"variable"`
}

// Sweep runs the simulation once per server count in [SweepMin, SweepMax]
// for the given stage, holding everything else in cfg fixed. Replications
// per point are capped at 5. Points are returned in ascending order.
func Sweep(cfg SimulationConfig, variable Stage) ([]SensitivityPoint, error) {
	base := cfg
	base.Replications = min(cfg.Replications, sweepMaxReplications)
	base.Workers = 1
	if err := base.WithServers(variable, SweepMin).Validate(); err != nil {
		return nil, err
	}

	points := make([]SensitivityPoint, SweepMax-SweepMin+1)
	errs := make([]error, len(points))
	parallelFor(len(points), cfg.Workers, func(i int) {
		n := SweepMin + i
		stats, err := Run(base.WithServers(variable, n))
		if err != nil {
			errs[i] = fmt.Errorf("sweep %s=%d: %w", variable, n, err)
			return
		}
		points[i] = SensitivityPoint{
			Label:    fmt.Sprintf("%s=%d", variable, n),
			XValue:   n,
			Cost:     stats.TotalDegradationCost,
			AvgWait:  stats.WaitStats.At(variable).Avg,
			Variable: variable.String(),
		}
		logrus.Infof("Sweep %s: cost=%.2f avgWait=%.2f", points[i].Label, points[i].Cost, points[i].AvgWait)
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}
