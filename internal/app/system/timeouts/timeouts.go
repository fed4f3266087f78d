// Package timeouts holds the deadlines handlers and workers put on database
// and planner calls, used with context.WithTimeout.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks
//   - Short: single-document reads and writes (load a meeting, save a month)
//   - Medium: list queries and multi-step reads (results aggregation)
//   - Long: multi-collection writes and the cleanup sweep
//   - Planner: one call to the planning backend
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing    = 2 * time.Second
	DefaultShort   = 5 * time.Second
	DefaultMedium  = 10 * time.Second
	DefaultLong    = 30 * time.Second
	DefaultPlanner = 20 * time.Second
)

var mu sync.RWMutex

var current = Config{
	Ping:    DefaultPing,
	Short:   DefaultShort,
	Medium:  DefaultMedium,
	Long:    DefaultLong,
	Planner: DefaultPlanner,
}

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping    time.Duration
	Short   time.Duration
	Medium  time.Duration
	Long    time.Duration
	Planner time.Duration
}

func Ping() time.Duration    { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration   { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration  { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration    { return get(func(c Config) time.Duration { return c.Long }) }
func Planner() time.Duration { return get(func(c Config) time.Duration { return c.Planner }) }

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(current)
}

// Configure overrides the non-zero values of cfg. Call it during startup
// before handlers are built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		current.Medium = cfg.Medium
	}
	if cfg.Long > 0 {
		current.Long = cfg.Long
	}
	if cfg.Planner > 0 {
		current.Planner = cfg.Planner
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Config{
		Ping:    DefaultPing,
		Short:   DefaultShort,
		Medium:  DefaultMedium,
		Long:    DefaultLong,
		Planner: DefaultPlanner,
	}
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Planner(), h.Log, "plan meeting")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
