package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_LogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	log, err := New("test-svc", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled with LOG_LEVEL=error")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error level must stay enabled")
	}
}

func TestNew_InvalidLogLevelKeepsDefault(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	log, err := New("test-svc", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("invalid LOG_LEVEL must fall back to the production default (info)")
	}
}
