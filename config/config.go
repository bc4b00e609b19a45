package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/CodeStranger-Fred/banditsim/bandit"
	"github.com/CodeStranger-Fred/banditsim/sim"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BANDITSIM_"

// Policies lists the policy names accepted in Config.Policy.
var Policies = []string{"thompson", "greedy", "epsilon-greedy"}

// Config holds everything a simulation needs.
// Precedence is defaults, then the YAML file, then the environment.
type Config struct {
	Trials   int           `yaml:"trials" env:"TRIALS"`
	Runs     int           `yaml:"runs" env:"RUNS"`
	Seed     int64         `yaml:"seed" env:"SEED"`
	Workers  int           `yaml:"workers" env:"WORKERS"`
	Policy   string        `yaml:"policy" env:"POLICY"`
	Epsilon  float64       `yaml:"epsilon" env:"EPSILON"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL"`
	Arms     []sim.ArmSpec `yaml:"arms"`
	Output   OutputConfig  `yaml:"output" envPrefix:"OUTPUT_"`
}

// OutputConfig controls what a batch leaves behind. Empty paths disable the output.
type OutputConfig struct {
	Color       bool   `yaml:"color" env:"COLOR"`
	Chart       string `yaml:"chart" env:"CHART"`
	Database    string `yaml:"database" env:"DATABASE"`
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
}

// Default reproduces the classic testbed: three arms, 1000 trials, 100 runs.
func Default() Config {
	return Config{
		Trials:   1000,
		Runs:     100,
		Seed:     1,
		Policy:   "thompson",
		Epsilon:  0.1,
		LogLevel: "info",
		Arms:     sim.DefaultArms(),
		Output: OutputConfig{
			Color: true,
		},
	}
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be positive, got %d", c.Trials))
	}
	if c.Runs <= 0 {
		errs = append(errs, fmt.Errorf("runs must be positive, got %d", c.Runs))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := c.NewPolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := sim.NewTestbed(c.Arms); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w: %w", bandit.ErrInvalidInput, err)
	}
	return nil
}

// NewPolicy builds the configured policy.
func (c Config) NewPolicy() (bandit.Policy, error) {
	switch c.Policy {
	case "thompson", "":
		return bandit.Thompson{}, nil
	case "greedy":
		return bandit.Greedy{}, nil
	case "epsilon-greedy":
		if c.Epsilon < 0 || c.Epsilon > 1 {
			return nil, fmt.Errorf("epsilon must be in [0, 1], got %g", c.Epsilon)
		}
		return bandit.EpsilonGreedy{Epsilon: c.Epsilon}, nil
	}
	return nil, fmt.Errorf("unknown policy %q (want one of %s)", c.Policy, strings.Join(Policies, ", "))
}

// AllPolicies returns factories for every known policy, the configured one first.
func (c Config) AllPolicies() []func() bandit.Policy {
	first := c.Policy
	if first == "" {
		first = "thompson"
	}
	names := []string{first}
	for _, name := range Policies {
		if name != first {
			names = append(names, name)
		}
	}

	var factories []func() bandit.Policy
	for _, name := range names {
		cc := c
		cc.Policy = name
		p, err := cc.NewPolicy()
		if err != nil {
			continue
		}
		factories = append(factories, func() bandit.Policy { return p })
	}
	return factories
}

// Batch converts the run settings for sim.Runner.
func (c Config) Batch() sim.BatchConfig {
	return sim.BatchConfig{
		Runs:    c.Runs,
		Trials:  c.Trials,
		Seed:    c.Seed,
		Workers: c.Workers,
	}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// NewLogger returns a text logger writing to stderr at the configured level.
func (c Config) NewLogger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
