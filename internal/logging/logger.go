package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the logger writes
type Options struct {
	// Level is one of debug, info, warn, error
	Level string
	// Dir enables a rotating JSON log file when non-empty
	Dir string
	// Stderr sends console output to stderr, for tools that print results on stdout
	Stderr bool
}

// New builds the application logger: a readable console core plus an
// optional rotating JSON file core.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	console := zapcore.AddSync(os.Stdout)
	if opts.Stderr {
		console = zapcore.AddSync(os.Stderr)
	}
	cores := []zapcore.Core{newConsoleCore(console, level)}

	if opts.Dir != "" {
		fileCore, err := newFileCore(opts.Dir, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// newFileCore writes everything at or above level to activityhub.log under dir
func newFileCore(dir string, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "activityhub.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level), nil
}

func newConsoleCore(out zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		out,
		level,
	)
}
