// Package logger builds the zap logger and carries it through contexts, gin
// requests and gorm statements.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ISO8601Millis is the timestamp layout of server logs
const ISO8601Millis = "2006-01-02T15:04:05.000Z07:00"

// Config selects level, encoding and sinks.
type Config struct {
	Level  string // debug, info, warn, error; empty means info
	Format string // json or console
	// Output is a comma separated list of zap sinks: stdout, stderr or file paths
	Output     string
	TimeFormat string
}

// New builds the process logger. Errors carry a stack trace.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	paths := []string{"stdout"}
	if cfg.Output != "" {
		paths = strings.Split(cfg.Output, ",")
		for i := range paths {
			paths[i] = strings.TrimSpace(paths[i])
		}
	}
	// the sinks live as long as the process
	sink, _, err := zap.Open(paths...)
	if err != nil {
		return nil, fmt.Errorf("log output: %w", err)
	}

	return zap.New(
		zapcore.NewCore(encoder(cfg), sink, level),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func encoder(cfg Config) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	layout := cfg.TimeFormat
	if layout == "" {
		layout = ISO8601Millis
	}
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(layout)

	if strings.EqualFold(cfg.Format, "console") {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}
