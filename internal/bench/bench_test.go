package bench

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/gomega"

	"github.com/maxdcmn/rsgbench/internal/task"
)

func TestContainerName(t *testing.T) {
	g := gomega.NewWithT(t)

	name := ContainerName("russiannlp/rubert-parus")
	g.Expect(name).To(gomega.MatchRegexp(`^russiannlp_rubert-parus_[0-9a-f]{5}$`))
	g.Expect(ContainerName("russiannlp/rubert-parus")).NotTo(gomega.Equal(name))
}

func TestArgs(t *testing.T) {
	g := gomega.NewWithT(t)

	opts := &DockerOptions{Runtime: "nvidia", Volume: "/data", Device: "cuda", ModelPath: "/workspace/model"}
	g.Expect(opts.Args("img/x", "img_x_abcde", task.TERRa, 128)).To(gomega.Equal([]string{
		"run", "--volume", "/data:/workspace", "--interactive", "--rm", "--runtime", "nvidia",
		"--name", "img_x_abcde", "img/x",
		"--batch-size", "128", "--task", "terra", "--model-path", "/workspace/model", "--device", "cuda",
	}))

	bare := &DockerOptions{Device: "cpu"}
	g.Expect(bare.Args("img", "img_1", task.RCB, 1)).To(gomega.Equal([]string{
		"run", "--interactive", "--rm", "--name", "img_1", "img",
		"--batch-size", "1", "--task", "rcb", "--device", "cpu",
	}))
}

func TestCycle(t *testing.T) {
	g := gomega.NewWithT(t)

	g.Expect(Cycle([]string{"a", "b"}, 5)).To(gomega.Equal("a\nb\na\nb\na\n"))
	g.Expect(Cycle([]string{"a", "b", "c"}, 1)).To(gomega.Equal("a\n"))
	g.Expect(Cycle(nil, 3)).To(gomega.BeEmpty())
}

func TestInputReadsValSplit(t *testing.T) {
	g := gomega.NewWithT(t)

	dir := t.TempDir()
	path := task.TERRa.Path(dir, task.Val)
	g.Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(gomega.Succeed())
	g.Expect(os.WriteFile(path, []byte("{\"idx\":0}\n{\"idx\":1}\n"), 0644)).To(gomega.Succeed())

	r, err := Input(dir, task.TERRa, 3)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	data, _ := io.ReadAll(r)
	g.Expect(string(data)).To(gomega.Equal("{\"idx\":0}\n{\"idx\":1}\n{\"idx\":0}\n"))
}
