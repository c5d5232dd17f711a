// Package config loads and validates the agent's YAML configuration file
// and persistent state file (spec §6), and resolves the XDG-style
// filesystem layout the original hard-codes via Path.home().
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Coordinate is the agent's configured longitude/latitude (spec §6).
type Coordinate struct {
	Longitude float64 `yaml:"longitude"`
	Latitude  float64 `yaml:"latitude"`
}

// AgentSection is the `agent:` block of config.yml.
type AgentSection struct {
	UserName   string     `yaml:"user_name" validate:"required"`
	Coordinate Coordinate `yaml:"coordinate"`
}

// CoordinatorSection is the `cpp:` block of config.yml (named for the
// original's "control plane protocol" section key).
type CoordinatorSection struct {
	HeartbeatInterval int    `yaml:"heartbeat_interval"`
	BaseURL           string `yaml:"base_url"`
}

// NodeRegistration is one entry of the optional `nodes:` plug-in list
// (spec §6: "module, class pairs from configuration").
type NodeRegistration struct {
	Module string `yaml:"module" validate:"required"`
	Class  string `yaml:"class" validate:"required"`
}

// Config is the parsed, validated contents of config.yml.
type Config struct {
	Agent   AgentSection       `yaml:"agent" validate:"required"`
	CPP     CoordinatorSection `yaml:"cpp"`
	Nodes   []NodeRegistration `yaml:"nodes"`
	Verbose bool               `yaml:"-"`
}

const (
	defaultHeartbeatInterval = 60
	defaultBaseURL           = "http://localhost:8888/api"
)

// applyDefaults fills in spec §6's documented defaults for fields left
// zero in the file.
func (c *Config) applyDefaults() {
	if c.CPP.HeartbeatInterval == 0 {
		c.CPP.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.CPP.BaseURL == "" {
		c.CPP.BaseURL = defaultBaseURL
	}
}

// Load reads, parses, and validates the configuration file at path.
// ConfigInvalid failures here are fatal at startup (spec §7).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidError{Cause: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidError{Cause: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	cfg.applyDefaults()

	if err := validate.Struct(cfg); err != nil {
		return nil, &InvalidError{Cause: fmt.Sprintf("validating %s: %v", path, err)}
	}
	return &cfg, nil
}

// InvalidError is spec §7's ConfigInvalid: fatal at startup.
type InvalidError struct {
	Cause string
}

func (e *InvalidError) Error() string { return "config: " + e.Cause }
