// Package config loads detector settings from YAML documents.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-coreperiphery/pkg/continuous"
	"github.com/dd0wney/cluso-coreperiphery/pkg/coreness"
	"github.com/dd0wney/cluso-coreperiphery/pkg/discrete"
	"github.com/dd0wney/cluso-coreperiphery/pkg/logging"
	"github.com/dd0wney/cluso-coreperiphery/pkg/scheduler"
)

// Algorithm names accepted in configuration.
const (
	AlgorithmBE      = "be"
	AlgorithmRombach = "rombach"
)

// Config is the full detector configuration.
type Config struct {
	Algorithm  string           `yaml:"algorithm" validate:"required,oneof=be rombach"`
	LogLevel   string           `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Scheduler  scheduler.Config `yaml:"scheduler"`
	Policies   Policies         `yaml:"policies"`
	Discrete   discrete.Options `yaml:"discrete"`
	Continuous Continuous       `yaml:"continuous"`
	Coreness   coreness.Deriver `yaml:"coreness"`
}

// Policies toggles the scheduler's performance shortcuts. Disabling both
// gives a plain multi-restart search.
type Policies struct {
	AdaptiveRuns bool                              `yaml:"adaptive_runs"`
	RunCount     scheduler.AdaptiveRunCount        `yaml:"run_count"`
	EarlyStop    bool                              `yaml:"early_stop"`
	Stop         scheduler.RelativeImprovementStop `yaml:"stop"`
}

// Continuous carries the Rombach options with the strategy as a name.
type Continuous struct {
	continuous.Options `yaml:",inline"`
	Strategy           string `yaml:"strategy" validate:"omitempty,oneof=label_switching parallel_label_switching annealing ls pls sa"`
}

// Default returns a configuration with every section at its default.
func Default() *Config {
	return &Config{
		Algorithm: AlgorithmBE,
		LogLevel:  "info",
		Scheduler: scheduler.DefaultConfig(),
		Policies: Policies{
			AdaptiveRuns: true,
			RunCount:     scheduler.DefaultAdaptiveRunCount(),
			EarlyStop:    true,
			Stop:         scheduler.DefaultRelativeImprovementStop(),
		},
		Discrete: discrete.DefaultOptions(),
		Continuous: Continuous{
			Options:  continuous.DefaultOptions(),
			Strategy: continuous.LabelSwitching.String(),
		},
		Coreness: coreness.DefaultDeriver(),
	}
}

// Load decodes a YAML document over the defaults and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ContinuousOptions returns the Rombach options with the strategy resolved.
func (c *Config) ContinuousOptions() (continuous.Options, error) {
	opts := c.Continuous.Options
	strategy, err := continuous.ParseStrategy(c.Continuous.Strategy)
	if err != nil {
		return opts, err
	}
	opts.Strategy = strategy
	return opts, nil
}

// SchedulerOptions translates the policy toggles into scheduler options.
func (c *Config) SchedulerOptions() []scheduler.Option {
	var opts []scheduler.Option
	if c.Policies.AdaptiveRuns {
		opts = append(opts, scheduler.WithRunCountPolicy(c.Policies.RunCount))
	} else {
		opts = append(opts, scheduler.WithRunCountPolicy(scheduler.FixedRunCount{}))
	}
	if c.Policies.EarlyStop {
		opts = append(opts, scheduler.WithStopPolicy(c.Policies.Stop))
	} else {
		opts = append(opts, scheduler.WithStopPolicy(scheduler.NeverStop{}))
	}
	return opts
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
