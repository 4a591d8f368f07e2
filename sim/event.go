package sim

import "github.com/sirupsen/logrus"

// EventType tags the variant of an Event.
type EventType int

const (
	EventArrival EventType = iota
	EventMouldingFinish
	EventInspectionFinish
	EventPackagingFinish
)

func (t EventType) String() string {
	switch t {
	case EventArrival:
		return "Arrival"
	case EventMouldingFinish:
		return "MouldingFinish"
	case EventInspectionFinish:
		return "InspectionFinish"
	case EventPackagingFinish:
		return "PackagingFinish"
	}
	return "Unknown"
}

// finishEventTypes maps each stage to the event that completes it.
var finishEventTypes = [NumStages]EventType{EventMouldingFinish, EventInspectionFinish, EventPackagingFinish}

// FinishEventType returns the event type that completes service at stage s.
func FinishEventType(s Stage) EventType {
	return finishEventTypes[s]
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated minutes), a Type tag and an
// Execute method that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Type() EventType
	Execute(*Simulator)
}

// ArrivalEvent represents a new part entering the line.
type ArrivalEvent struct {
	time float64
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Type returns EventArrival.
func (e *ArrivalEvent) Type() EventType {
	return EventArrival
}

// Execute creates the job, schedules the next arrival and routes the job
// into moulding.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	sim.handleArrival(e.time)
}

// FinishEvent represents a job completing service at a stage.
type FinishEvent struct {
	time  float64
	Stage Stage
	JobID int
}

// Timestamp returns the scheduled time of the FinishEvent.
func (e *FinishEvent) Timestamp() float64 {
	return e.time
}

// Type returns the stage-specific finish tag.
func (e *FinishEvent) Type() EventType {
	return FinishEventType(e.Stage)
}

// Execute releases the server at the stage and routes the job downstream.
func (e *FinishEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< %s: job %d at %.3f", e.Type(), e.JobID, e.time)
	sim.handleFinish(e.Stage, e.JobID, e.time)
}
