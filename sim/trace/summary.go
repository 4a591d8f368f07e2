package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents  int
	KindCounts   map[string]int // event tag → count
	PeakWIP      int
	PeakQueues   []int // max wait queue length per stage
	LastEventAt  float64
	DroppedCount int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	summary.DroppedCount = st.Dropped
	for _, ev := range st.Events {
		summary.KindCounts[ev.Kind]++
		if ev.WIP > summary.PeakWIP {
			summary.PeakWIP = ev.WIP
		}
		for i, q := range ev.QueueLengths {
			for len(summary.PeakQueues) <= i {
				summary.PeakQueues = append(summary.PeakQueues, 0)
			}
			if q > summary.PeakQueues[i] {
				summary.PeakQueues[i] = q
			}
		}
		summary.LastEventAt = ev.Time
	}
	return summary
}

// IntegrateWIP returns the area under the WIP step curve from time 0 to
// until, using the WIP recorded after each event. WIP is 0 before the
// first record.
func IntegrateWIP(st *SimulationTrace, until float64) float64 {
	if st == nil {
		return 0
	}
	area := 0.0
	prevTime, prevWIP := 0.0, 0
	for _, ev := range st.Events {
		if ev.Time > until {
			break
		}
		area += (ev.Time - prevTime) * float64(prevWIP)
		prevTime, prevWIP = ev.Time, ev.WIP
	}
	if until > prevTime {
		area += (until - prevTime) * float64(prevWIP)
	}
	return area
}
