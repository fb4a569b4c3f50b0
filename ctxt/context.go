// Package ctxt provides the GPU driver and configuration shared by
// the ngrid and kernels packages.
package ctxt

import (
	"errors"
	"strings"
	"sync"

	"github.com/ngridml/ngrid/driver"
	_ "github.com/ngridml/ngrid/driver/vk"
)

var errNoDriver = errors.New("ctxt: driver not found")

var (
	mu     sync.Mutex
	drv    driver.Driver
	gpu    driver.GPU
	limits driver.Limits
	cfg    Config
	open   bool
)

// Open selects and initializes a GPU driver, applying cfg to the
// package's logging and pool-sizing behavior. If name is non-empty,
// only drivers whose name contains it are considered; an empty name
// considers every registered driver. Calling Open when a driver is
// already open has no effect and returns nil.
func Open(name string, c Config) error {
	mu.Lock()
	defer mu.Unlock()
	if open {
		return nil
	}
	if err := loadDriver(name); err != nil {
		return err
	}
	cfg = c
	applyLogLevel(cfg)
	open = true
	log(Info, "ctxt: opened driver", "name", drv.Name())
	return nil
}

// OpenDefault is equivalent to Open("", DefaultConfig()). It is used
// by package-level tests and by callers that do not need to customize
// driver selection or pool sizing.
func OpenDefault() error { return Open("", DefaultConfig()) }

// Close releases the underlying driver. After Close returns, Open may
// be called again to reinitialize the package for further use. Close
// on a package that is not open has no effect.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if !open {
		return
	}
	drv.Close()
	drv, gpu, limits, open = nil, nil, driver.Limits{}, false
}

// loadDriver assumes mu is held.
func loadDriver(name string) error {
	drivers := driver.Drivers()
	err := errNoDriver
	for i := range drivers {
		if !strings.Contains(drivers[i].Name(), name) {
			continue
		}
		var u driver.GPU
		if u, err = drivers[i].Open(); err != nil {
			continue
		}
		drv = drivers[i]
		gpu = u
		limits = gpu.Limits()
		return nil
	}
	return err
}

// Driver returns the driver.Driver opened by Open. It panics if the
// package is not open.
func Driver() driver.Driver {
	mu.Lock()
	defer mu.Unlock()
	if !open {
		panic("ctxt: not open")
	}
	return drv
}

// GPU returns the driver.GPU opened by Open. It panics if the package
// is not open.
func GPU() driver.GPU {
	mu.Lock()
	defer mu.Unlock()
	if !open {
		panic("ctxt: not open")
	}
	return gpu
}

// Limits returns the driver.Limits of the open GPU. The returned
// pointer must not be modified by the caller. It panics if the
// package is not open.
func Limits() *driver.Limits {
	mu.Lock()
	defer mu.Unlock()
	if !open {
		panic("ctxt: not open")
	}
	return &limits
}

// Cfg returns the Config that Open was called with.
func Cfg() Config {
	mu.Lock()
	defer mu.Unlock()
	return cfg
}

// IsOpen reports whether a driver is currently open.
func IsOpen() bool {
	mu.Lock()
	defer mu.Unlock()
	return open
}
