package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

var _ = Describe("Store", func() {
	var (
		dir   string
		st    *Store
		hook  *logtest.Hook
		clock time.Time
		traj  *dynamo.Trajectory
		meta  RunMetadata
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		st = New(dir)

		var logger *logrus.Logger
		logger, hook = logtest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		st.Log = logger

		clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		st.now = func() time.Time { return clock }

		var err error
		traj, err = climate.DefaultModel().Simulate(288, 0.4, 25, 1e5)
		Expect(err).NotTo(HaveOccurred())

		meta = RunMetadata{
			Name:        "present-day",
			Integrator:  "rk4",
			Greenhouse:  0.4,
			InitialTemp: 288,
			Dt:          1e5,
			Params:      climate.DefaultParams(),
			Metrics:     map[string]float64{"convergence": 1e-3},
		}
	})

	Describe("Save", func() {
		It("writes metadata and trajectory files", func() {
			runID, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())
			Expect(runID).To(Equal("present-day_1772366400"))

			Expect(filepath.Join(dir, runID, "metadata.json")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, runID, "trajectory.csv")).To(BeAnExistingFile())

			data, err := os.ReadFile(filepath.Join(dir, runID, "trajectory.csv"))
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.SplitN(string(data), "\n", 2)[0]).To(Equal("time,temperature,rate"))
		})

		It("fills in derived fields", func() {
			runID, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ID).To(Equal(runID))
			Expect(loaded.Steps).To(Equal(25))
			Expect(loaded.FinalTemp).To(Equal(traj.Final().Temperature))
			Expect(loaded.Timestamp.Equal(clock)).To(BeTrue())
			Expect(loaded.Params).To(Equal(climate.DefaultParams()))
			Expect(loaded.Metrics).To(HaveKeyWithValue("convergence", 1e-3))
		})

		It("keeps IDs unique within the same second", func() {
			first, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())
			second, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).NotTo(Equal(first))
			Expect(second).To(HavePrefix(first))
		})

		It("drops non-finite metrics with a warning", func() {
			meta.Metrics["convergence"] = math.Inf(1)

			runID, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Metrics).NotTo(HaveKey("convergence"))

			var warned bool
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.WarnLevel && e.Data["metric"] == "convergence" {
					warned = true
				}
			}
			Expect(warned).To(BeTrue())
		})

		It("logs the saved run", func() {
			runID, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			entry := hook.LastEntry()
			Expect(entry).NotTo(BeNil())
			Expect(entry.Message).To(Equal("saved run"))
			Expect(entry.Data).To(HaveKeyWithValue("run", runID))
		})

		It("rejects names that would leave the store", func() {
			meta.Name = "../escape"
			_, err := st.Save(meta, traj)
			Expect(errors.Is(err, ErrBadRunID)).To(BeTrue())
		})

		It("leaves nothing behind when metadata cannot be encoded", func() {
			meta.Params.Model.A1 = math.NaN()

			_, err := st.Save(meta, traj)
			Expect(err).To(HaveOccurred())

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())

			runs, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(BeEmpty())
		})

		It("returns the first write error and closes the file", func() {
			path := filepath.Join(dir, "out.txt")
			err := writeFile(path, func(w io.Writer) error {
				_, werr := w.Write([]byte("ok"))
				return werr
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(path)).To(Equal([]byte("ok")))

			failed := errors.New("boom")
			err = writeFile(filepath.Join(dir, "bad.txt"), func(io.Writer) error { return failed })
			Expect(err).To(MatchError(failed))
		})

		It("rejects an empty trajectory", func() {
			_, err := st.Save(meta, dynamo.NewTrajectory(0))
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
		})
	})

	Describe("LoadTrajectory", func() {
		It("round-trips every sample exactly", func() {
			runID, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := st.LoadTrajectory(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Times).To(Equal(traj.Times))
			Expect(loaded.Temperatures).To(Equal(traj.Temperatures))
			Expect(loaded.Rates).To(Equal(traj.Rates))
		})

		It("reports malformed rows", func() {
			runDir := filepath.Join(dir, "broken")
			Expect(os.MkdirAll(runDir, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(runDir, "trajectory.csv"),
				[]byte("time,temperature,rate\n0,288,abc\n"), 0644)).To(Succeed())

			_, err := st.LoadTrajectory("broken")
			Expect(err).To(MatchError(ContainSubstring("line 2")))
		})

		It("rejects a wrong header", func() {
			_, err := ReadCSV(strings.NewReader("t,x,v\n0,1,2\n"))
			Expect(err).To(MatchError(ContainSubstring("unexpected header")))
		})
	})

	Describe("List", func() {
		It("returns nothing for a missing directory", func() {
			runs, err := New(filepath.Join(dir, "nope")).List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(BeEmpty())
		})

		It("lists runs oldest first and skips foreign directories", func() {
			_, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			clock = clock.Add(-time.Hour)
			meta.Name = "snowball"
			_, err = st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.MkdirAll(filepath.Join(dir, "scratch"), 0755)).To(Succeed())

			runs, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			Expect(runs[0].Name).To(Equal("snowball"))
			Expect(runs[1].Name).To(Equal("present-day"))
		})
	})

	Describe("Load", func() {
		DescribeTable("rejects IDs outside the store",
			func(runID string) {
				_, err := st.Load(runID)
				Expect(errors.Is(err, ErrBadRunID)).To(BeTrue())
			},
			Entry("empty", ""),
			Entry("parent", ".."),
			Entry("nested", "../etc"),
			Entry("absolute", "/tmp"),
		)

		It("returns a not-exist error for unknown runs", func() {
			_, err := st.Load("missing")
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})

	Describe("ExportJSON", func() {
		It("combines metadata and samples", func() {
			runID, err := st.Save(meta, traj)
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(st.ExportJSON(runID, &buf)).To(Succeed())

			var out ExportData
			Expect(json.Unmarshal(buf.Bytes(), &out)).To(Succeed())
			Expect(out.ID).To(Equal(runID))
			Expect(out.Greenhouse).To(Equal(0.4))
			Expect(out.Temperatures).To(Equal(traj.Temperatures))
			Expect(out.Rates).To(HaveLen(traj.Len()))
		})
	})
})
