package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalEvents != 0 {
		t.Errorf("expected 0 total events, got %d", summary.TotalEvents)
	}
	if summary.PeakWIP != 0 {
		t.Errorf("expected 0 peak WIP, got %d", summary.PeakWIP)
	}
	if len(summary.KindCounts) != 0 {
		t.Error("expected empty kind counts")
	}
	if len(summary.PeakQueues) != 0 {
		t.Error("expected no queue peaks")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalEvents != 0 || summary.KindCounts == nil {
		t.Errorf("expected zero summary with initialized map, got %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCountsAndPeaks(t *testing.T) {
	// GIVEN a trace with a few events
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.RecordEvent(EventRecord{Time: 0, Kind: "Arrival", WIP: 1, QueueLengths: []int{0, 0, 0}})
	st.RecordEvent(EventRecord{Time: 2, Kind: "Arrival", WIP: 2, QueueLengths: []int{1, 0, 0}})
	st.RecordEvent(EventRecord{Time: 3, Kind: "MouldingFinish", WIP: 2, QueueLengths: []int{0, 0, 2}})
	st.RecordEvent(EventRecord{Time: 9, Kind: "PackagingFinish", WIP: 1, QueueLengths: []int{0, 0, 1}})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts and peaks match
	if summary.TotalEvents != 4 {
		t.Errorf("expected 4 events, got %d", summary.TotalEvents)
	}
	if summary.KindCounts["Arrival"] != 2 {
		t.Errorf("expected 2 arrivals, got %d", summary.KindCounts["Arrival"])
	}
	if summary.PeakWIP != 2 {
		t.Errorf("expected peak WIP 2, got %d", summary.PeakWIP)
	}
	want := []int{1, 0, 2}
	for i, w := range want {
		if summary.PeakQueues[i] != w {
			t.Errorf("stage %d: expected peak queue %d, got %d", i, w, summary.PeakQueues[i])
		}
	}
	if summary.LastEventAt != 9 {
		t.Errorf("expected last event at 9, got %v", summary.LastEventAt)
	}
}

func TestIntegrateWIP_StepCurve(t *testing.T) {
	// GIVEN WIP 1 on [0,2), 2 on [2,5), 1 on [5,10]
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.RecordEvent(EventRecord{Time: 0, WIP: 1})
	st.RecordEvent(EventRecord{Time: 2, WIP: 2})
	st.RecordEvent(EventRecord{Time: 5, WIP: 1})

	// WHEN integrated to t=10
	area := IntegrateWIP(st, 10)

	// THEN area = 1*2 + 2*3 + 1*5 = 13
	if area != 13 {
		t.Errorf("expected area 13, got %v", area)
	}
}
