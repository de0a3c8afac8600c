// Package logger provides opinionated logging for lgclient
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger writing to stderr. Stdout is reserved
// for response data.
func NewLogger(debug bool) *zap.Logger {
	return New(os.Stderr, debug)
}

// New returns a console logger writing to w
func New(w io.Writer, debug bool) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if w == os.Stderr {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)

	return zap.New(core, zap.AddCaller())
}

// Quiet returns a debug logger when debug is set and a no-op logger
// otherwise. Interactive commands use it so log lines do not interleave with
// their own output.
func Quiet(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	return NewLogger(true)
}

// NewFileLogger returns a debug logger appending to path. Full-screen
// interfaces use it since stderr is not visible while they run. The returned
// func closes the file.
func NewFileLogger(path string) (*zap.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log := New(f, true)
	return log, func() error {
		_ = log.Sync()
		return f.Close()
	}, nil
}
