package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Info("transform", "done", map[string]interface{}{"radius": 12})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "transform" {
		t.Errorf("component: got %v, want transform", entry["component"])
	}
	if entry["message"] != "done" {
		t.Errorf("message: got %v, want done", entry["message"])
	}
	if entry["radius"] != float64(12) {
		t.Errorf("radius: got %v, want 12", entry["radius"])
	}
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("c", "hidden", nil)
	log.Info("c", "hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn level, got %q", buf.String())
	}

	log.Error("c", errors.New("boom"), nil)
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("error entry missing: %q", buf.String())
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("FRST_LOG_LEVEL", tt.value)
			if got := LevelFromEnv(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
