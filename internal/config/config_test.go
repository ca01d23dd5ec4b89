package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onsi/gomega"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	g := gomega.NewWithT(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(cfg).To(gomega.Equal(Default()))
}

func TestLoadOverridesDefaults(t *testing.T) {
	g := gomega.NewWithT(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
registry_dir: /srv/benches
sampler:
  delay: 500ms
scorer:
  base_url: http://scorer:9000
`)
	g.Expect(os.WriteFile(path, data, 0644)).To(gomega.Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(cfg.RegistryDir).To(gomega.Equal("/srv/benches"))
	g.Expect(cfg.Sampler.Delay).To(gomega.Equal(500 * time.Millisecond))
	g.Expect(cfg.Sampler.PidRetries).To(gomega.Equal(10))
	g.Expect(cfg.Scorer.BaseURL).To(gomega.Equal("http://scorer:9000"))
	g.Expect(cfg.Scorer.Endpoint).To(gomega.Equal("/perplexity"))
}

func TestLoadRejectsInvalid(t *testing.T) {
	g := gomega.NewWithT(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	g.Expect(os.WriteFile(path, []byte("stats:\n  gpu_usage_threshold: 3\n"), 0644)).To(gomega.Succeed())

	_, err := Load(path)
	g.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("gpu_usage_threshold")))
}

func TestSaveRoundTrip(t *testing.T) {
	g := gomega.NewWithT(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Docker.Volume = "/data/models"
	g.Expect(Save(cfg, path)).To(gomega.Succeed())

	loaded, err := Load(path)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(loaded).To(gomega.Equal(cfg))
}
