package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestLogTransition_EmitsRecordShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	LogTransition(logger, TransitionRecord{
		ModelID:   "model-1",
		Trigger:   "wake_up",
		FromState: "asleep",
		ToState:   "hanging_out",
		Timestamp: ts,
	})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if record["model_id"] != "model-1" || record["trigger"] != "wake_up" {
		t.Fatalf("record missing identity fields: %v", record)
	}
	if record["from_state"] != "asleep" || record["to_state"] != "hanging_out" {
		t.Fatalf("record missing state fields: %v", record)
	}
	if _, ok := record["timestamp"]; !ok {
		t.Fatalf("record missing timestamp: %v", record)
	}
}

func TestLogTransition_NilLogger(t *testing.T) {
	// Must not panic.
	LogTransition(nil, TransitionRecord{ModelID: "m", Trigger: "t"})
}

func TestNewLogger_FormatSelection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf})
	logger.Debug("hello")
	if buf.Len() == 0 {
		t.Fatal("expected text output")
	}
	if json.Valid(buf.Bytes()) {
		t.Fatal("text format must not emit JSON")
	}

	buf.Reset()
	logger = NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	logger.Debug("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("debug output must be suppressed at info level: %s", buf.String())
	}
	logger.Info("visible")
	if !json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Fatalf("json format must emit JSON: %s", buf.String())
	}
}
