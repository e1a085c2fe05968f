// Package logging wires zap with file rotation for the admin console.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger output.
type Config struct {
	// FilePath enables rotated JSON file output when set.
	FilePath string
	// MaxSizeMB caps each log file before rotation. Defaults to 10.
	MaxSizeMB int
	// MaxBackups limits retained rotated files. Defaults to 5.
	MaxBackups int
	// Production switches console output to JSON.
	Production bool
}

// NewLogger builds a zap logger that writes to stdout and, when configured,
// to a rotated log file.
func NewLogger(cfg Config) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	var consoleEncoder zapcore.Encoder
	if cfg.Production {
		consoleEncoder = jsonEncoder
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel),
	}

	if cfg.FilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 5
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zap.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// ZapTelemetry adapts a zap logger to the telemetry hooks used by the
// analysis and order components.
type ZapTelemetry struct {
	logger *zap.Logger
}

// NewZapTelemetry wraps the logger. A nil logger falls back to zap.NewNop.
func NewZapTelemetry(logger *zap.Logger) *ZapTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTelemetry{logger: logger}
}

// Record logs the event with its payload at info level.
func (t *ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.logger.Info(event, zap.Any("payload", payload))
}
