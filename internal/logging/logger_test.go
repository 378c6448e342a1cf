package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		log, err := New(level, false)
		if err != nil {
			t.Errorf("New(%q) error: %v", level, err)
			continue
		}
		if log == nil {
			t.Errorf("New(%q) returned nil logger", level)
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Error("invalid level must be rejected")
	}
}

func TestNewQuiet(t *testing.T) {
	log, err := New("debug", true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if log.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Error("quiet mode must suppress info-level output")
	}
}
