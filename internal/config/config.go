package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"orderstats/internal/loader"
	"orderstats/internal/state"
)

// Config holds the settings of one orderstats run.
type Config struct {
	Input        string        `yaml:"input"`
	TallyBackend string        `yaml:"tally_backend"` // memory|pebble|badger
	JSON         bool          `yaml:"json"`
	OutFile      string        `yaml:"out"`
	Timeout      time.Duration `yaml:"timeout"`

	KafkaBootstrap string `yaml:"kafka_bootstrap"`
	KafkaTopic     string `yaml:"kafka_topic"`

	MetricsPushURL string `yaml:"metrics_push_url"`
	MetricsJob     string `yaml:"metrics_job"`
}

func Default() Config {
	return Config{
		Input:        loader.DefaultFile,
		TallyBackend: state.BackendMemory,
		Timeout:      10 * time.Second,
		KafkaTopic:   "orders.stats",
		MetricsJob:   "orderstats",
	}
}

// LoadFile reads a YAML config on top of Default.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.TallyBackend {
	case state.BackendMemory, state.BackendPebble, state.BackendBadger:
	default:
		return fmt.Errorf("tally_backend must be memory|pebble|badger, got %q", c.TallyBackend)
	}
	if c.Input == "" {
		return fmt.Errorf("input must not be empty")
	}
	if c.KafkaBootstrap != "" && c.KafkaTopic == "" {
		return fmt.Errorf("kafka_topic is required when kafka_bootstrap is set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
