package coclust

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/kjsanger/coclust/kernel"
)

// Backend re-exports kernel.Backend so callers of Cluster don't need to
// import the kernel package just to set Config.Backend.
type Backend = kernel.Backend

const (
	BackendGoroutinePool = kernel.BackendGoroutinePool
	BackendScalar        = kernel.BackendScalar
)

// Logger is the diagnostic sink rank 0 reports per-iteration statistics to.
// The zero value of Config uses slog.Default(); cmd/coclust installs its
// own text-handler logger at startup.
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct{ l *slog.Logger }

func (s slogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

// Config controls one Cluster call. All fields are optional; see
// effective* methods for defaults.
type Config struct {
	// MaxIterations caps the refinement loop. Zero means use the default
	// of 25, matching the CLI's --max-iterations default.
	MaxIterations int

	// Workers is the number of simulated SPMD ranks. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int

	// Backend selects the data-parallel reduction strategy. Zero value
	// (BackendGoroutinePool) is the default; see package kernel.
	Backend Backend

	// Logger receives per-iteration diagnostics from rank 0. Nil means
	// slog.Default().
	Logger Logger
}

const defaultMaxIterations = 25

func (c Config) effectiveMaxIterations() int {
	if c.MaxIterations > 0 {
		return c.MaxIterations
	}
	return defaultMaxIterations
}

func (c Config) effectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

func (c Config) effectiveLogger() Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slogLogger{l: slog.Default()}
}
