package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDurationSec  = 3600
	DefaultIntervalSec  = 5
	DefaultProbePeriod  = 5
	DefaultOutputPath   = "network_trace.csv"
	DefaultAttachHelper = "m"
)

// Config is the full profiler configuration, static for a run.
type Config struct {
	Run   RunConfig   `yaml:"run"`
	Nodes NodesConfig `yaml:"nodes"`
}

// RunConfig controls the sampling loop.
type RunConfig struct {
	DurationSec int `yaml:"duration_sec"`
	IntervalSec int `yaml:"interval_sec"`
	// ProbePeriod gates the iperf probe to every Nth iteration so the
	// bandwidth test itself doesn't saturate the link under study.
	ProbePeriod  int    `yaml:"bandwidth_probe_period"`
	OutputPath   string `yaml:"output_path"`
	AttachHelper string `yaml:"attach_helper"`
}

// NodesConfig names the emulated nodes the profiler polls. These are
// assigned by the topology script before the profiler starts and are
// treated as opaque handles.
type NodesConfig struct {
	Client     string `yaml:"client"`      // wireless station under test (e.g. sta3)
	Server     string `yaml:"server"`      // edge server (e.g. fog1)
	Switch     string `yaml:"switch"`      // access point / OVS switch (e.g. ap1)
	ServerAddr string `yaml:"server_addr"` // server's IP as seen from the client
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// Validate fails fast on anything the sampling loop cannot start
// without; node handles in particular have no usable fallback.
func Validate(cfg Config) error {
	if cfg.Run.DurationSec <= 0 {
		return fmt.Errorf("run.duration_sec must be positive")
	}
	if cfg.Run.IntervalSec <= 0 {
		return fmt.Errorf("run.interval_sec must be positive")
	}
	if cfg.Run.ProbePeriod <= 0 {
		return fmt.Errorf("run.bandwidth_probe_period must be positive")
	}
	if cfg.Run.OutputPath == "" {
		return fmt.Errorf("run.output_path is required")
	}
	if cfg.Nodes.Client == "" {
		return fmt.Errorf("nodes.client is required")
	}
	if cfg.Nodes.Server == "" {
		return fmt.Errorf("nodes.server is required")
	}
	if cfg.Nodes.Switch == "" {
		return fmt.Errorf("nodes.switch is required")
	}
	if cfg.Nodes.ServerAddr == "" {
		return fmt.Errorf("nodes.server_addr is required")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Run.DurationSec == 0 {
		cfg.Run.DurationSec = DefaultDurationSec
	}
	if cfg.Run.IntervalSec == 0 {
		cfg.Run.IntervalSec = DefaultIntervalSec
	}
	if cfg.Run.ProbePeriod == 0 {
		cfg.Run.ProbePeriod = DefaultProbePeriod
	}
	if cfg.Run.OutputPath == "" {
		cfg.Run.OutputPath = DefaultOutputPath
	}
	if cfg.Run.AttachHelper == "" {
		cfg.Run.AttachHelper = DefaultAttachHelper
	}
}
