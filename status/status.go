// Package status centralises the progress and diagnostic output emitted by
// the solver pipeline. Long-running stages (critical set analysis,
// scheduling search, the shotgun driver) report through a Sink instead of
// writing to stdout directly, so callers embedding this module can redirect
// or silence it.
package status

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives progress and diagnostic messages from the solver pipeline.
type Sink interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// zapSink is the default Sink, backed by a zap.Logger.
type zapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps an existing zap.Logger as a Sink.
func NewZapSink(logger *zap.Logger) Sink {
	return &zapSink{logger: logger}
}

// NewDefault builds a Sink with zap's production console encoding, quiet
// about anything below info unless verbose is set.
func NewDefault(verbose bool) Sink {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "t"
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05"))
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}

	return &zapSink{logger: logger}
}

func (s *zapSink) Info(msg string, fields ...zap.Field)  { s.logger.Info(msg, fields...) }
func (s *zapSink) Warn(msg string, fields ...zap.Field)  { s.logger.Warn(msg, fields...) }
func (s *zapSink) Error(msg string, fields ...zap.Field) { s.logger.Error(msg, fields...) }

// Noop is a Sink that discards everything, used by library callers and
// tests that don't want pipeline chatter.
var Noop Sink = &zapSink{logger: zap.NewNop()}

// Throttle decides, in a goroutine-safe way, whether enough time has passed
// since the last emitted progress message to emit another one. Mirrors
// original_source's ProgressInterval gate used throughout the solvers.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewThrottle builds a Throttle that allows one message per interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, next: time.Now().Add(interval)}
}

// Ready reports whether the interval has elapsed, and if so resets it.
func (t *Throttle) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)

	return true
}
