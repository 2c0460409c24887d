package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("framewall", "warn", &buf)

	log.Info("hidden")
	log.Warn("shown", "frame", "001")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "frame=001") {
		t.Errorf("Expected warn line with key/value, got: %s", out)
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("FRAMEWALL_LOG_LEVEL", "")
	if got := GetLogLevel("debug"); got != "debug" {
		t.Errorf("Expected fallback debug, got %s", got)
	}
	if got := GetLogLevel(""); got != "info" {
		t.Errorf("Expected info, got %s", got)
	}

	t.Setenv("FRAMEWALL_LOG_LEVEL", "trace")
	if got := GetLogLevel("debug"); got != "trace" {
		t.Errorf("Expected env level trace, got %s", got)
	}
}

func TestOrNull(t *testing.T) {
	if OrNull(nil) == nil {
		t.Fatal("Expected a null logger")
	}
	OrNull(nil).Error("discarded")
}
