// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/prodline-sim/prodline-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, line state, and the event loop.
// One Simulator executes exactly one replication; it shares nothing with other simulators.
type Simulator struct {
	Config  SimulationConfig
	Clock   float64
	Horizon float64
	// EventQueue has all pending events, ordered by timestamp then insertion
	EventQueue *EventHeap
	RNG        *RandomStream
	// Pools are the three work centres, indexed by Stage
	Pools [NumStages]*StagePool
	Jobs  *JobArena
	// WIP is the number of jobs that arrived but have not finished packaging
	WIP int
	// WIPArea is the integral of WIP over simulated time
	WIPArea    float64
	EventCount int
	// Trace, when non-nil, receives one record per processed event
	Trace *trace.SimulationTrace
}

// RunResult is the raw outcome of one replication, consumed by ComputeStats.
type RunResult struct {
	Key        SimulationKey
	Duration   float64
	EndTime    float64 // timestamp of the last processed event
	Jobs       []Job
	BusyTime   [NumStages]float64
	Servers    [NumStages]int
	WIPArea    float64
	FinalWIP   int
	EventCount int
}

// NewSimulator creates a simulator for cfg driven by the stream of key.
// The first arrival is scheduled at time 0. cfg is not validated here.
func NewSimulator(cfg SimulationConfig, key SimulationKey) *Simulator {
	s := &Simulator{
		Config:     cfg,
		Clock:      0,
		Horizon:    cfg.Duration,
		EventQueue: NewEventHeap(),
		RNG:        NewRandomStream(key),
		Jobs:       &JobArena{},
	}
	for _, stage := range Stages {
		s.Pools[stage] = NewStagePool(stage, cfg.Servers(stage))
	}
	s.Schedule(&ArrivalEvent{time: 0})
	return s
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.EventQueue.Schedule(ev)
}

// Run processes events until the queue is empty or the next event lies
// beyond the horizon, then returns the raw result.
func (sim *Simulator) Run() *RunResult {
	for sim.EventQueue.Len() > 0 {
		if sim.EventQueue.Peek().Timestamp() > sim.Horizon {
			break
		}
		ev := sim.EventQueue.PopNext()
		// integrate WIP over the elapsed interval before the transition
		sim.WIPArea += (ev.Timestamp() - sim.Clock) * float64(sim.WIP)
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
		sim.EventCount++
	}
	// close the WIP integral over [Clock, Horizon]
	if sim.Horizon > sim.Clock {
		sim.WIPArea += (sim.Horizon - sim.Clock) * float64(sim.WIP)
	}
	logrus.Debugf("[t=%.3f] Simulation ended after %d events, %d jobs, WIP=%d",
		sim.Clock, sim.EventCount, sim.Jobs.Len(), sim.WIP)
	return sim.result()
}

func (sim *Simulator) result() *RunResult {
	res := &RunResult{
		Key:        sim.RNG.Key(),
		Duration:   sim.Horizon,
		EndTime:    sim.Clock,
		Jobs:       sim.Jobs.Jobs(),
		WIPArea:    sim.WIPArea,
		FinalWIP:   sim.WIP,
		EventCount: sim.EventCount,
	}
	for _, stage := range Stages {
		res.BusyTime[stage] = sim.Pools[stage].BusyTime
		res.Servers[stage] = sim.Pools[stage].Servers
	}
	return res
}

// handleArrival admits a new job and keeps the arrival process going.
func (sim *Simulator) handleArrival(now float64) {
	sim.WIP++
	product := ChooseFrom(sim.RNG, ProductTypes)
	id := sim.Jobs.New(product, now)
	logrus.Debugf("<< Arrival: job %d (%s) at %.3f", id, product, now)

	next := now + sim.RNG.Exponential(sim.Config.ArrivalIntervalMean)
	if next <= sim.Horizon {
		sim.Schedule(&ArrivalEvent{time: next})
	}

	sim.tryStart(StageMoulding, id, now)
	sim.record(EventArrival, StageMoulding, id)
}

// handleFinish releases a server at stage, hands it to the head of the
// stage's queue and routes the finished job downstream.
func (sim *Simulator) handleFinish(stage Stage, id int, now float64) {
	pool := sim.Pools[stage]
	job := sim.Jobs.Get(id)
	job.SetEnd(stage, now)
	pool.BusyTime += now - job.Stages[stage].Start
	pool.Free++

	// the freed server goes to the waiting job before anything else
	if waiting, ok := pool.WaitQ.Dequeue(); ok {
		sim.tryStart(stage, waiting, now)
	}

	if next, ok := stage.Next(); ok {
		sim.tryStart(next, id, now)
	} else {
		job.Completed = true
		sim.WIP--
	}
	sim.record(FinishEventType(stage), stage, id)
}

// tryStart dispatches job id at stage if a server is free, else queues it.
func (sim *Simulator) tryStart(stage Stage, id int, now float64) {
	pool := sim.Pools[stage]
	if pool.Free <= 0 {
		pool.WaitQ.Enqueue(id)
		return
	}
	pool.Free--
	job := sim.Jobs.Get(id)
	job.SetStart(stage, now)
	service := sim.RNG.Exponential(job.Product.BaseServiceMean() * stage.ServiceMultiplier())
	sim.Schedule(&FinishEvent{time: now + service, Stage: stage, JobID: id})
}

func (sim *Simulator) record(kind EventType, stage Stage, id int) {
	if sim.Trace == nil {
		return
	}
	queues := make([]int, NumStages)
	for _, s := range Stages {
		queues[s] = sim.Pools[s].WaitQ.Len()
	}
	sim.Trace.RecordEvent(trace.EventRecord{
		Time:         sim.Clock,
		Kind:         kind.String(),
		Stage:        stage.String(),
		JobID:        id,
		WIP:          sim.WIP,
		QueueLengths: queues,
	})
}
