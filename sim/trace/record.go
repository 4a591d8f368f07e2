// Package trace provides per-event recording for production line runs.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// EventRecord captures the line state right after one event was processed.
type EventRecord struct {
	Time         float64
	Kind         string // event tag, e.g. "Arrival", "InspectionFinish"
	Stage        string // stage the event concerns
	JobID        int
	WIP          int   // work in process after the event
	QueueLengths []int // wait queue length per stage, in routing order
}
