package ctxt

import (
	"testing"
)

func TestOpenClose(t *testing.T) {
	if err := OpenDefault(); err != nil {
		t.Skipf("no driver available: %v", err)
	}
	defer Close()

	if Driver() == nil {
		t.Error("unexpected nil Driver")
	}
	if GPU() == nil {
		t.Error("unexpected nil GPU")
	}
	if lim := Limits(); lim == nil {
		t.Error("unexpected nil Limits")
	}
	if !IsOpen() {
		t.Error("IsOpen: want true after Open")
	}

	// Reopening must be a no-op.
	if err := Open("", DefaultConfig()); err != nil {
		t.Errorf("Open on already-open context: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := DefaultConfig()
	if c.DescPoolSize <= 0 || c.CmdPoolSize <= 0 {
		t.Error("DefaultConfig: pool sizes must be positive")
	}
	if c.LogLevel != "warning" {
		t.Errorf("DefaultConfig: LogLevel = %q, want %q", c.LogLevel, "warning")
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	c := LoadConfigOrDefault("testdata/does-not-exist.yaml")
	if c != DefaultConfig() {
		t.Error("LoadConfigOrDefault: want DefaultConfig on missing file")
	}
}
