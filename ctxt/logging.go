package ctxt

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Severity levels for diagnostic messages. They map onto logr's
// leveled Info calls (Warning/Info/Debug) plus Error for fatal-path
// reporting and Force for messages that must reach the sink
// regardless of the configured LogLevel.
type Severity int

const (
	Silent Severity = iota - 1
	Error
	Warning
	Info
	Debug
	Force Severity = 100
)

func init() {
	stdr.SetVerbosity(DefaultConfig().verbosity())
}

// logger is the process-wide sink used by the ctxt and driver
// packages. It defaults to stdr writing to os.Stderr; SetLogger
// replaces it.
var logger logr.Logger = stdr.New(nil)

// SetLogger replaces the logr.Logger used for diagnostics across the
// ctxt package. It does not change the logger of the driver package
// that Open selects; driver/vk has its own SetLogger.
func SetLogger(l logr.Logger) { logger = l }

// Logger returns the logger currently in use.
func Logger() logr.Logger { return logger }

// applyLogLevel sets the global stdr verbosity threshold from cfg.
// It only affects stdr sinks; a caller-supplied logr.Logger from
// SetLogger manages its own verbosity.
func applyLogLevel(cfg Config) {
	stdr.SetVerbosity(cfg.verbosity())
}

// log emits msg at the given severity. Silent callers never reach
// here (checked at call sites that gate on it); Force always logs.
func log(sev Severity, msg string, kv ...any) {
	switch sev {
	case Error:
		logger.Error(nil, msg, kv...)
	case Force:
		// Call the sink directly: Logger.Info drops the message
		// when the verbosity threshold is below 0 ("silent").
		if s := logger.GetSink(); s != nil {
			s.Info(0, msg, kv...)
		}
	default:
		logger.V(int(sev)).Info(msg, kv...)
	}
}

// logErr logs err at Error severity with a message.
func logErr(err error, msg string, kv ...any) {
	logger.Error(err, msg, kv...)
}
