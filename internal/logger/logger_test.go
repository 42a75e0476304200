package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		if _, err := NewLogger(env, ""); err != nil {
			t.Errorf("env %q: unexpected error: %v", env, err)
		}
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("local", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled when level is warn")
	}
	if !l.Core().Enabled(zap.WarnLevel) {
		t.Error("warn should be enabled")
	}

	if _, err := NewLogger("local", "nonsense"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestTryFromContext(t *testing.T) {
	if _, ok := TryFromContext(context.Background()); ok {
		t.Error("expected no logger in a bare context")
	}

	l := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), l)
	got, ok := TryFromContext(ctx)
	if !ok || got != l {
		t.Error("expected the stored logger back")
	}
	if FromContext(ctx) != l {
		t.Error("FromContext should return the stored logger")
	}
}
