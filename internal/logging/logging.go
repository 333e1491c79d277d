// Package logging builds the leveled logger shared by the client, store and UI.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"todoctl/internal/config"
)

// New returns a logger writing to w at the level configured in cfg.
// cfg.Debug forces debug level. A level config.Load would have rejected
// falls back to warn.
func New(w io.Writer, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: cfg.Debug,
		Prefix:          config.AppName,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
