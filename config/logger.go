package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamp formatting that writes to w
// and filters at level. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           lvl,
	})
}

// Logger is NewLogger at the configured level.
func (c *Config) Logger(w io.Writer) *log.Logger {
	return NewLogger(w, c.LogLevel)
}
