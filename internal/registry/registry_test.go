package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/gomega"

	"github.com/maxdcmn/rsgbench/internal/model"
)

func TestPath(t *testing.T) {
	g := gomega.NewWithT(t)

	r := Record{Dir: "benches", Model: "rubert", Task: "terra", InputSize: 2000, BatchSize: 32, Index: 3}
	g.Expect(r.Path()).To(gomega.Equal(filepath.Join("benches", "rubert", "terra", "2000_32_03.jsonl")))
}

func TestParsePath(t *testing.T) {
	g := gomega.NewWithT(t)

	info, err := ParsePath("benches/rubert/terra/2000_32_03.jsonl")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(info).To(gomega.Equal(PathInfo{Task: "terra", InputSize: 2000, BatchSize: 32, Index: 3}))

	info, err = ParsePath("old/rcb/1_1_01.jl")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(info.Task).To(gomega.Equal("rcb"))

	_, err = ParsePath("benches/terra/run.jsonl")
	g.Expect(errors.Is(err, ErrBadPath)).To(gomega.BeTrue())
}

func TestSaveListQueryLoad(t *testing.T) {
	g := gomega.NewWithT(t)

	dir := t.TempDir()
	run := model.Run{
		{Timestamp: 1, CPUUsage: model.Float(0.5)},
		{Timestamp: 2, GPURAM: model.Int(100)},
	}
	for _, r := range []Record{
		{Dir: dir, Model: "rubert", Task: "terra", InputSize: 1, BatchSize: 1, Index: 1},
		{Dir: dir, Model: "rubert", Task: "terra", InputSize: 2000, BatchSize: 32, Index: 1},
		{Dir: dir, Model: "rubert", Task: "terra", InputSize: 2000, BatchSize: 32, Index: 2},
		{Dir: dir, Model: "xlm", Task: "rcb", InputSize: 2000, BatchSize: 32, Index: 1},
	} {
		g.Expect(Save(r, run)).To(gomega.Succeed())
	}
	legacy := filepath.Join(dir, "xlm", "rcb", "1_1_01.jl")
	g.Expect(os.WriteFile(legacy, []byte("{\"timestamp\":5}\n"), 0644)).To(gomega.Succeed())
	g.Expect(os.WriteFile(filepath.Join(dir, "xlm", "rcb", "notes.txt"), nil, 0644)).To(gomega.Succeed())

	records, err := List(dir)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(records).To(gomega.HaveLen(5))

	terra := Query(records, Filter{Models: []string{"rubert"}, InputSizes: []int{2000}})
	g.Expect(terra).To(gomega.HaveLen(2))
	g.Expect(NextIndex(records, "rubert", "terra", 2000, 32)).To(gomega.Equal(3))
	g.Expect(NextIndex(records, "rubert", "rcb", 2000, 32)).To(gomega.Equal(1))

	loaded, err := Load(terra[0])
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(loaded).To(gomega.Equal(run))

	old := Query(records, Filter{Models: []string{"xlm"}, InputSizes: []int{1}})
	g.Expect(old).To(gomega.HaveLen(1))
	g.Expect(old[0].Path()).To(gomega.Equal(legacy))
	loaded, err = Load(old[0])
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(loaded).To(gomega.HaveLen(1))
}
