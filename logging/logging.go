// Package logging contains the logging facilities shared by all components.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the interface every component logs through. It is a subset of
// zap's sugared logger plus named sub-loggers.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})

	Sublogger(name string) Logger
	Sync() error
}

type impl struct {
	*zap.SugaredLogger
}

func (l *impl) Sublogger(name string) Logger {
	return &impl{l.SugaredLogger.Named(name)}
}

func (l *impl) Sync() error {
	return l.SugaredLogger.Sync()
}

// NewLoggerConfig returns the default console logger config: Info+, colored
// levels, no stacktraces.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named logger that outputs Info+ logs to stdout.
func NewLogger(name string) Logger {
	logger, err := NewLoggerConfig().Build()
	if err != nil {
		panic(err)
	}
	return &impl{logger.Sugar().Named(name)}
}

// NewDebugLogger returns a named logger that outputs Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	config := NewLoggerConfig()
	config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return &impl{logger.Sugar().Named(name)}
}
