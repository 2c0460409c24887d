package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("FRAMEWALL_JSON_LOG") == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05.000Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// GetLogLevel returns the level from FRAMEWALL_LOG_LEVEL, or fallback
// when the variable is unset.
func GetLogLevel(fallback string) string {
	if level := os.Getenv("FRAMEWALL_LOG_LEVEL"); level != "" {
		return level
	}
	if fallback == "" {
		return "info"
	}
	return fallback
}

// OrNull returns l, or a logger that discards everything when l is nil.
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}
