package history

import (
	"path/filepath"
	"time"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prodline-sim/prodline-sim/sim"
)

var _ = ginkgo.Describe("Store", func() {
	var (
		store *Store
		clock time.Time
		cfg   sim.SimulationConfig
	)

	ginkgo.BeforeEach(func() {
		var err error
		store, err = Open(filepath.Join(ginkgo.GinkgoT().TempDir(), "history.db"))
		Expect(err).NotTo(HaveOccurred())

		clock = time.Unix(1_700_000_000, 0)
		store.now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}
		cfg = sim.DefaultConfig()
	})

	ginkgo.AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	ginkgo.Context("when a run is recorded", func() {
		ginkgo.It("should round-trip the config and headline KPIs", func() {
			stats := &sim.SimulationStats{
				TotalJobs:            90,
				CompletedJobs:        80,
				Throughput:           10,
				ServiceLevel:         0.75,
				TotalDegradationCost: 123.5,
				Replications:         1,
			}
			stats.WaitTimes.Inspection = []float64{1, 2, 3}

			id, err := store.RecordRun(cfg, stats)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())

			entry, err := store.Get(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Kind).To(Equal(KindRun))
			Expect(entry.Config.Duration).To(Equal(cfg.Duration))
			Expect(entry.Config.InspectionStations).To(Equal(cfg.InspectionStations))
			Expect(entry.Throughput).To(Equal(10.0))
			Expect(entry.TotalCost).To(Equal(123.5))
			Expect(entry.ServiceLevel).To(Equal(0.75))
			Expect(entry.Stats).NotTo(BeNil())
			Expect(entry.Stats.CompletedJobs).To(Equal(80))
		})

		ginkgo.It("should not persist raw wait samples", func() {
			stats := &sim.SimulationStats{}
			stats.WaitTimes.Moulding = []float64{4, 5}

			id, err := store.RecordRun(cfg, stats)
			Expect(err).NotTo(HaveOccurred())

			entry, err := store.Get(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Stats.WaitTimes.Moulding).To(BeEmpty())
			Expect(stats.WaitTimes.Moulding).To(HaveLen(2), "caller's stats must not be modified")
		})
	})

	ginkgo.Context("when a sweep is recorded", func() {
		ginkgo.It("should store the points and the cheapest cost", func() {
			points := []sim.SensitivityPoint{
				{Label: "inspection=1", XValue: 1, Cost: 900, Variable: "inspection"},
				{Label: "inspection=2", XValue: 2, Cost: 150, Variable: "inspection"},
				{Label: "inspection=3", XValue: 3, Cost: 200, Variable: "inspection"},
			}

			id, err := store.RecordSweep(cfg, points)
			Expect(err).NotTo(HaveOccurred())

			entry, err := store.Get(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Kind).To(Equal(KindSweep))
			Expect(entry.Points).To(Equal(points))
			Expect(entry.TotalCost).To(Equal(150.0))
			Expect(entry.Stats).To(BeNil())
		})
	})

	ginkgo.Context("listing", func() {
		ginkgo.It("should return the newest entries first, honouring the limit", func() {
			var ids []string
			for i := 0; i < 3; i++ {
				id, err := store.RecordRun(cfg, &sim.SimulationStats{Throughput: float64(i)})
				Expect(err).NotTo(HaveOccurred())
				ids = append(ids, id)
			}

			entries, err := store.Recent(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].ID).To(Equal(ids[2]))
			Expect(entries[1].ID).To(Equal(ids[1]))

			all, err := store.Recent(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
		})
	})

	ginkgo.It("should report unknown IDs as not found", func() {
		_, err := store.Get("does-not-exist")
		Expect(err).To(MatchError(ErrNotFound))
	})
})
