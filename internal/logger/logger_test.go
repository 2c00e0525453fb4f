package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("output missing field: %s", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"time":`) {
		t.Errorf("output missing timestamp: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf).With().Str("request_id", "r-1").Logger()

	ctx := WithContext(context.Background(), log)
	got := FromContext(ctx)

	got.Info().Msg("from context")
	if !strings.Contains(buf.String(), `"request_id":"r-1"`) {
		t.Errorf("context logger lost its fields: %s", buf.String())
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	// Must fall back to a usable logger, not panic.
	log := FromContext(context.Background())
	log.Debug().Msg("fallback")
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"debug", "debug"},
		{"warn", "warn"},
		{"ERROR", "error"},
		{"", "info"},
		{"nonsense", "info"},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			if got := levelFromEnv().String(); got != tt.want {
				t.Errorf("levelFromEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
