package sim

import (
	"fmt"
	"strings"
)

// Stage identifies one of the three work centres on the line.
type Stage int

const (
	StageMoulding Stage = iota
	StageInspection
	StagePackaging

	// NumStages is the number of stages on the line.
	NumStages = 3
)

// Stages lists the stages in routing order.
var Stages = [NumStages]Stage{StageMoulding, StageInspection, StagePackaging}

// stageMultipliers scale the product's base service mean per stage.
// Inspection and packaging are partly automated and run faster than moulding.
var stageMultipliers = [NumStages]float64{1.0, 0.8, 0.6}

func (s Stage) String() string {
	switch s {
	case StageMoulding:
		return "moulding"
	case StageInspection:
		return "inspection"
	case StagePackaging:
		return "packaging"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ServiceMultiplier returns the scaling applied to base service means at s.
func (s Stage) ServiceMultiplier() float64 {
	return stageMultipliers[s]
}

// Next returns the downstream stage. ok is false for packaging.
func (s Stage) Next() (Stage, bool) {
	if s >= StagePackaging {
		return s, false
	}
	return s + 1, true
}

// Prev returns the upstream stage. ok is false for moulding.
func (s Stage) Prev() (Stage, bool) {
	if s <= StageMoulding {
		return s, false
	}
	return s - 1, true
}

// ParseStage parses a stage name (case-insensitive).
func ParseStage(name string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "moulding", "molding":
		return StageMoulding, nil
	case "inspection":
		return StageInspection, nil
	case "packaging":
		return StagePackaging, nil
	}
	return 0, fmt.Errorf("unknown stage %q; valid: moulding, inspection, packaging", name)
}

// StagePool is a capacity-constrained resource: a fixed number of identical
// servers and a FIFO queue of jobs waiting for one.
type StagePool struct {
	Stage    Stage
	Servers  int
	Free     int
	WaitQ    *WaitQueue
	BusyTime float64 // sum of occupied durations of finished jobs
}

// NewStagePool creates a pool with all servers free.
func NewStagePool(stage Stage, servers int) *StagePool {
	return &StagePool{
		Stage:   stage,
		Servers: servers,
		Free:    max(servers, 0),
		WaitQ:   &WaitQueue{},
	}
}

// Utilization returns busy time over available capacity-time.
// Returns 0 when the capacity-time is zero.
func (p *StagePool) Utilization(duration float64) float64 {
	capacity := duration * float64(p.Servers)
	if capacity <= 0 {
		return 0
	}
	return p.BusyTime / capacity
}
