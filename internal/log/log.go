// Package log builds the logr.Logger used across themekit, backed by zap.
package log

import (
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink is one configured zap core with its cleanup.
type Sink struct {
	core    zapcore.Core
	cleanup func() error
}

// New creates a logger named service over the given sinks. With no sinks the
// logger discards everything. The returned function flushes all sinks and
// should run before the program exits.
func New(service string, sinks ...Sink) (logr.Logger, func() error) {
	cores := make([]zapcore.Core, 0, len(sinks))
	var cleanups []func() error
	for _, s := range sinks {
		cores = append(cores, s.core)
		if s.cleanup != nil {
			cleanups = append(cleanups, s.cleanup)
		}
	}

	zapLogger := zap.New(zapcore.NewTee(cores...))
	cleanups = append(cleanups, zapLogger.Sync)
	return zapr.NewLogger(zapLogger).WithName(service), firstError(cleanups...)
}

// Verbosity maps a logr V-level to a zap level enabler. Verbosity 0 logs
// info and errors; each step up enables one more V-level.
func Verbosity(v int) zap.AtomicLevel {
	return zap.NewAtomicLevelAt(zapcore.Level(-v))
}

// WithConsoleSink writes human readable lines to w.
func WithConsoleSink(w io.Writer, level zapcore.LevelEnabler) Sink {
	return Sink{core: zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)}
}

// WithJSONSink writes one JSON object per entry to w.
func WithJSONSink(w io.Writer, level zapcore.LevelEnabler) Sink {
	return Sink{core: zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)}
}

// WithCore adds a caller supplied core, mostly for tests.
func WithCore(core zapcore.Core) Sink {
	return Sink{core: core}
}

func encoderConfig() zapcore.EncoderConfig {
	conf := zap.NewProductionEncoderConfig()
	conf.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	conf.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if level >= zapcore.ErrorLevel {
			enc.AppendString("error")
			return
		}
		enc.AppendString(fmt.Sprintf("info-%d", -int8(level)))
	}
	return conf
}

// firstError runs every function and returns the first error.
func firstError(fns ...func() error) func() error {
	return func() error {
		var errs []error
		for _, f := range fns {
			if err := f(); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) == 0 {
			return nil
		}
		return errs[0]
	}
}
