package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

type Sampler struct {
	Delay         time.Duration `yaml:"delay"`
	PidRetries    int           `yaml:"pid_retries"`
	PidRetryDelay time.Duration `yaml:"pid_retry_delay"`
}

type Stats struct {
	GPUUsageThreshold float64 `yaml:"gpu_usage_threshold"`
	InputSize         int     `yaml:"input_size"`
	BatchSize         int     `yaml:"batch_size"`
}

type Docker struct {
	Runtime   string `yaml:"runtime"`
	Volume    string `yaml:"volume"`
	Device    string `yaml:"device"`
	ModelPath string `yaml:"model_path"`
}

type Scorer struct {
	BaseURL   string        `yaml:"base_url"`
	Endpoint  string        `yaml:"endpoint"`
	Timeout   time.Duration `yaml:"timeout"`
	BatchSize int           `yaml:"batch_size"`
	CacheMB   int           `yaml:"cache_mb"`
}

type Log struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

type Config struct {
	RegistryDir string  `yaml:"registry_dir"`
	DataDir     string  `yaml:"data_dir"`
	Sampler     Sampler `yaml:"sampler"`
	Stats       Stats   `yaml:"stats"`
	Docker      Docker  `yaml:"docker"`
	Scorer      Scorer  `yaml:"scorer"`
	Log         Log     `yaml:"log"`
}

func Default() *Config {
	return &Config{
		RegistryDir: "benches",
		DataDir:     "data",
		Sampler: Sampler{
			Delay:         300 * time.Millisecond,
			PidRetries:    10,
			PidRetryDelay: 200 * time.Millisecond,
		},
		Stats: Stats{
			GPUUsageThreshold: 0.1,
			InputSize:         2000,
			BatchSize:         32,
		},
		Docker: Docker{
			Runtime:   "nvidia",
			Device:    "cuda",
			ModelPath: "/workspace/model",
		},
		Scorer: Scorer{
			BaseURL:   "http://127.0.0.1:8080",
			Endpoint:  "/perplexity",
			Timeout:   30 * time.Second,
			BatchSize: 32,
			CacheMB:   64,
		},
	}
}

// DefaultPath is ~/.config/rsgbench/config.yaml.
func DefaultPath() string {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "rsgbench", "config.yaml")
}

// Load reads the config at path, or DefaultPath when path is empty. A missing
// file yields the defaults. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Sampler.Delay <= 0 {
		return fmt.Errorf("sampler.delay must be positive")
	}
	if c.Sampler.PidRetries < 1 {
		return fmt.Errorf("sampler.pid_retries must be at least 1")
	}
	if c.Stats.GPUUsageThreshold < 0 || c.Stats.GPUUsageThreshold > 1 {
		return fmt.Errorf("stats.gpu_usage_threshold must be within [0, 1]")
	}
	if c.Scorer.BatchSize < 1 {
		return fmt.Errorf("scorer.batch_size must be at least 1")
	}
	return nil
}
