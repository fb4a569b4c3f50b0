// Package ctxt provides the GPU driver and configuration shared by
// the ngrid and kernels packages.
package ctxt

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the process-wide options that govern how the shared
// context opens the driver and sizes its pools. Every field has a
// documented zero-value default, so a process that never loads a
// file still gets sane behavior from DefaultConfig.
type Config struct {
	// LogLevel selects the verbosity of diagnostic messages emitted
	// by the ctxt and driver packages. One of "silent", "error",
	// "warning", "info" or "debug". Defaults to "warning".
	LogLevel string `yaml:"log_level"`

	// DescPoolSize is the number of descriptor table copies
	// NewDescPool allocates when it is called with n <= 0.
	// Defaults to 20.
	DescPoolSize int `yaml:"desc_pool_size"`

	// CmdPoolSize is the number of command buffers a CmdPool
	// creates each time Acquire finds none free. Defaults to 20.
	CmdPoolSize int `yaml:"cmd_pool_size"`

	// FenceTimeout bounds, in milliseconds, how long ngrid's dispatch
	// waits for a commit to finish before it returns ErrTimeout; the
	// GPU work stays in flight. Zero or a negative value means wait
	// forever. Defaults to 0.
	FenceTimeout int `yaml:"fence_timeout_ms"`
}

// DefaultConfig returns the configuration used when no file is loaded.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "warning",
		DescPoolSize: 20,
		CmdPoolSize:  20,
		FenceTimeout: 0,
	}
}

// LoadConfig reads and parses a YAML configuration file. Fields absent
// from the file keep DefaultConfig's values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DescPoolSize <= 0 {
		cfg.DescPoolSize = DefaultConfig().DescPoolSize
	}
	if cfg.CmdPoolSize <= 0 {
		cfg.CmdPoolSize = DefaultConfig().CmdPoolSize
	}
	return cfg, nil
}

// LoadConfigOrDefault loads path, falling back to DefaultConfig when
// the file cannot be read (e.g., it does not exist).
func LoadConfigOrDefault(path string) Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// verbosity maps a LogLevel name to the stdr verbosity threshold. Each
// name maps to the value of its Severity, so log's V(int(sev)) calls
// show that severity and every more severe one. Error messages go
// through Logger.Error and are not gated by the threshold; "silent"
// (-1) hides every leveled message. Unknown names behave like
// "warning".
func (c Config) verbosity() int {
	switch c.LogLevel {
	case "debug":
		return int(Debug)
	case "info":
		return int(Info)
	case "warning":
		return int(Warning)
	case "error":
		return int(Error)
	case "silent":
		return int(Silent)
	default:
		return int(Warning)
	}
}
