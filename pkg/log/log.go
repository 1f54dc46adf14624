// Package log provides scigo's structured logging façade. It exists so
// packages like ebm never import zerolog directly: they depend on the
// small Logger interface here, and a LoggerProvider decides the concrete
// backend (zerolog by default; SetDefaultProvider installs another).
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Well-known structured-logging field keys, shared across packages so log
// aggregation can group on them consistently.
const (
	ModelNameKey   = "model"
	ComponentKey   = "component"
	OperationKey   = "op"
	PhaseKey       = "phase"
	SamplesKey     = "samples"
	FeaturesKey    = "features"
	PredsKey       = "predictions"
	DurationMsKey  = "duration_ms"
	TermIndexKey   = "term_index"
	InnerBagKey    = "inner_bag"
	IterationKey   = "iteration"
)

// Well-known operation/phase values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationBoost   = "boost"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
	PhaseHistogram   = "histogram"
	PhasePartition   = "partition"
)

// Logger is the leveled, structured logging interface every scigo package
// depends on. Fields are passed as alternating key/value pairs, mirroring
// the standard library's log/slog convention.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
	With(kv ...interface{}) Logger
}

// LoggerProvider mints named Loggers. A package that doesn't want the
// global default can hold its own provider; most callers use the
// package-level GetLoggerWithName below.
type LoggerProvider interface {
	GetLoggerWithName(name string) Logger
}

// Level is a logging verbosity level, ordered least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelDisabled
)

// ToLogLevel parses a level name ("debug", "info", "warn", "error",
// "disabled") into a Level, defaulting to LevelInfo for anything else.
func ToLogLevel(name string) Level {
	switch name {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "disabled", "silent", "none":
		return LevelDisabled
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelDisabled:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// zerologProvider is the production LoggerProvider, backed by rs/zerolog
// writing structured JSON to an io.Writer.
type zerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider returns a LoggerProvider writing JSON lines to
// os.Stderr at the given level.
func NewZerologProvider(level Level) LoggerProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter returns a LoggerProvider writing to w.
func NewZerologProviderWithWriter(w io.Writer, level Level) LoggerProvider {
	base := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &zerologProvider{base: base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.base.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func kvEvent(e *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}

func (l *zerologLogger) Debug(msg string, kv ...interface{}) { kvEvent(l.logger.Debug(), kv).Msg(msg) }
func (l *zerologLogger) Info(msg string, kv ...interface{})  { kvEvent(l.logger.Info(), kv).Msg(msg) }
func (l *zerologLogger) Warn(msg string, kv ...interface{})  { kvEvent(l.logger.Warn(), kv).Msg(msg) }
func (l *zerologLogger) Error(msg string, kv ...interface{}) { kvEvent(l.logger.Error(), kv).Msg(msg) }

func (l *zerologLogger) With(kv ...interface{}) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, kv[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

var defaultProvider LoggerProvider = NewZerologProvider(func() Level {
	if lvl := os.Getenv("SCIGO_LOG_LEVEL"); lvl != "" {
		return ToLogLevel(lvl)
	}
	return LevelInfo
}())

// SetDefaultProvider replaces the process-wide default provider used by
// GetLoggerWithName.
func SetDefaultProvider(p LoggerProvider) {
	defaultProvider = p
}

// GetLoggerWithName returns a named Logger from the default provider. This
// is the entry point most model code uses:
//
//	logger := log.GetLoggerWithName("ebm.orchestrator")
//	logger.Info("boosting term", log.TermIndexKey, iTerm)
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}
