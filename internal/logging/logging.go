// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/contrastcheck/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Name is the root logger name.
const Name = "contrastcheck"

// ParseLevel converts a config level name to an hclog level.
func ParseLevel(s string) (hclog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return hclog.Trace, nil
	case "debug":
		return hclog.Debug, nil
	case "info", "":
		return hclog.Info, nil
	case "warn", "warning":
		return hclog.Warn, nil
	case "error":
		return hclog.Error, nil
	case "off":
		return hclog.Off, nil
	default:
		return hclog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger writing to out at the configured level. When cfg.File
// is set, every message at that level is also written as JSON to a rotating
// log file. The returned closer releases the file and must be called on exit.
func New(cfg config.LogConfig, out io.Writer) (hclog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     out,
		JSONFormat: cfg.JSON,
	})

	if cfg.File == "" {
		return logger, nopCloser{}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	logger.RegisterSink(hclog.NewSinkAdapter(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     file,
		JSONFormat: true,
	}))

	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
