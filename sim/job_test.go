package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJob_Wait_PerStage(t *testing.T) {
	// GIVEN a job that arrived at 10 and went through all stages
	j := &Job{ID: 0, ArrivalTime: 10}
	j.SetStart(StageMoulding, 12)
	j.SetEnd(StageMoulding, 20)
	j.SetStart(StageInspection, 25)
	j.SetEnd(StageInspection, 30)
	j.SetStart(StagePackaging, 30)
	j.SetEnd(StagePackaging, 33)
	j.Completed = true

	// THEN waits are measured from the upstream end (or arrival)
	w, ok := j.Wait(StageMoulding)
	assert.True(t, ok)
	assert.Equal(t, 2.0, w)
	w, _ = j.Wait(StageInspection)
	assert.Equal(t, 5.0, w)
	w, _ = j.Wait(StagePackaging)
	assert.Equal(t, 0.0, w)

	lt, ok := j.LeadTime()
	assert.True(t, ok)
	assert.Equal(t, 23.0, lt)
}

func TestJob_Wait_StageNotReached(t *testing.T) {
	j := &Job{ArrivalTime: 1}
	_, ok := j.Wait(StageInspection)
	assert.False(t, ok)
	_, ok = j.LeadTime()
	assert.False(t, ok)
}

func TestJob_StampsSetOnce(t *testing.T) {
	j := &Job{}
	j.SetStart(StageMoulding, 1)
	assert.Panics(t, func() { j.SetStart(StageMoulding, 2) })
	assert.Panics(t, func() { j.SetEnd(StageInspection, 2) }, "end before start must panic")
	j.SetEnd(StageMoulding, 3)
	assert.Panics(t, func() { j.SetEnd(StageMoulding, 4) })
}

func TestJobArena_DenseIDs(t *testing.T) {
	a := &JobArena{}
	for i := 0; i < 3; i++ {
		id := a.New(ProductTypeB, float64(i))
		assert.Equal(t, i, id)
	}
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 2.0, a.Get(2).ArrivalTime)
}

func TestProductType_BaseServiceMeans(t *testing.T) {
	want := map[ProductType]float64{ProductTypeA: 10, ProductTypeB: 15, ProductTypeC: 20, ProductTypeD: 12}
	for p, mean := range want {
		assert.Equal(t, mean, p.BaseServiceMean(), p.String())
	}
	assert.Len(t, ProductTypes, 4)
}

func TestStage_RoutingAndMultipliers(t *testing.T) {
	next, ok := StageMoulding.Next()
	assert.True(t, ok)
	assert.Equal(t, StageInspection, next)
	_, ok = StagePackaging.Next()
	assert.False(t, ok)
	_, ok = StageMoulding.Prev()
	assert.False(t, ok)

	assert.Equal(t, 1.0, StageMoulding.ServiceMultiplier())
	assert.Equal(t, 0.8, StageInspection.ServiceMultiplier())
	assert.Equal(t, 0.6, StagePackaging.ServiceMultiplier())
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{"moulding", StageMoulding, false},
		{"Inspection", StageInspection, false},
		{" packaging ", StagePackaging, false},
		{"molding", StageMoulding, false},
		{"painting", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStage(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStagePool_Utilization_ZeroCapacity(t *testing.T) {
	p := NewStagePool(StageMoulding, 0)
	p.BusyTime = 5
	assert.Equal(t, 0.0, p.Utilization(100))
	assert.Equal(t, 0, p.Free)
}
