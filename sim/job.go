package sim

import "fmt"

// ProductType is the product variant of a job. Each variant has its own
// mean service time.
type ProductType int

const (
	ProductTypeA ProductType = iota
	ProductTypeB
	ProductTypeC
	ProductTypeD
)

// ProductTypes is the closed, ordered set of variants an arrival is drawn from.
var ProductTypes = []ProductType{ProductTypeA, ProductTypeB, ProductTypeC, ProductTypeD}

// baseServiceMeans holds the mean service time (minutes) per product type,
// before the per-stage multiplier is applied.
var baseServiceMeans = map[ProductType]float64{
	ProductTypeA: 10,
	ProductTypeB: 15,
	ProductTypeC: 20,
	ProductTypeD: 12,
}

// BaseServiceMean returns the mean service time of p in minutes.
func (p ProductType) BaseServiceMean() float64 {
	return baseServiceMeans[p]
}

func (p ProductType) String() string {
	switch p {
	case ProductTypeA:
		return "TypeA"
	case ProductTypeB:
		return "TypeB"
	case ProductTypeC:
		return "TypeC"
	case ProductTypeD:
		return "TypeD"
	}
	return fmt.Sprintf("ProductType(%d)", int(p))
}

// StageRecord holds the start and end timestamps of a job at one stage.
// Started/Finished report whether the corresponding timestamp is set.
type StageRecord struct {
	Start    float64
	End      float64
	Started  bool
	Finished bool
}

// Job tracks the lifecycle of one part through the line.
// Jobs are owned by the simulator's arena and addressed by ID.
type Job struct {
	ID          int
	Product     ProductType
	ArrivalTime float64
	Stages      [NumStages]StageRecord
	Completed   bool
}

// SetStart stamps the start time of stage s. Each timestamp is set exactly once.
func (j *Job) SetStart(s Stage, now float64) {
	rec := &j.Stages[s]
	if rec.Started {
		panic(fmt.Sprintf("job %d: %s start already set", j.ID, s))
	}
	rec.Start = now
	rec.Started = true
}

// SetEnd stamps the end time of stage s. The stage must have started.
func (j *Job) SetEnd(s Stage, now float64) {
	rec := &j.Stages[s]
	if !rec.Started || rec.Finished {
		panic(fmt.Sprintf("job %d: invalid %s end stamp", j.ID, s))
	}
	rec.End = now
	rec.Finished = true
}

// Wait returns the time the job spent queued before stage s started.
// ok is false if the job never reached s.
func (j *Job) Wait(s Stage) (wait float64, ok bool) {
	rec := j.Stages[s]
	if !rec.Started {
		return 0, false
	}
	ready := j.ArrivalTime
	if prev, hasPrev := s.Prev(); hasPrev {
		ready = j.Stages[prev].End
	}
	return rec.Start - ready, true
}

// LeadTime returns packaging end minus arrival for completed jobs.
func (j *Job) LeadTime() (float64, bool) {
	if !j.Completed {
		return 0, false
	}
	return j.Stages[StagePackaging].End - j.ArrivalTime, true
}

// JobArena stores every job created during a run, indexed by ID.
type JobArena struct {
	jobs []Job
}

// New creates a job with the next ID and returns that ID.
func (a *JobArena) New(product ProductType, arrival float64) int {
	id := len(a.jobs)
	a.jobs = append(a.jobs, Job{ID: id, Product: product, ArrivalTime: arrival})
	return id
}

// Get returns a pointer to job id. The pointer is valid until the next New.
func (a *JobArena) Get(id int) *Job {
	return &a.jobs[id]
}

// Len returns the number of jobs created.
func (a *JobArena) Len() int {
	return len(a.jobs)
}

// Jobs returns the arena contents. Callers MUST NOT modify the slice.
func (a *JobArena) Jobs() []Job {
	return a.jobs
}
