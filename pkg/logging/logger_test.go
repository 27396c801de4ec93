package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	for _, lvl := range []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel} {
		text, err := lvl.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", lvl, err)
		}
		var got Level
		if err := got.UnmarshalText(text); err != nil || got != lvl {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, got, err, lvl)
		}
	}

	var l Level
	if err := l.UnmarshalText([]byte("Warning")); err != nil || l != WarnLevel {
		t.Errorf("UnmarshalText(Warning) = %v, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("verbose")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"RunIndex", RunIndex(3), "run", 3},
		{"Seed", Seed(7), "seed", uint64(7)},
		{"Score", Score(0.25), "score", 0.25},
		{"NodeCount", NodeCount(10), "nodes", 10},
		{"EdgeCount", EdgeCount(12), "edges", 12},
		{"Algorithm", Algorithm("be"), "algorithm", "be"},
		{"RequestID", RequestID("abc"), "request_id", "abc"},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"NilError", Error(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("got %+v, want {Key:%s Value:%v}", tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestFloat64NonFinite(t *testing.T) {
	if f := Float64("q", math.NaN()); f.Value != "NaN" {
		t.Errorf("NaN field = %v", f.Value)
	}
	if f := Float64("q", math.Inf(-1)); f.Value != "-Inf" {
		t.Errorf("-Inf field = %v", f.Value)
	}

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	logger.Info("trial failed", Score(math.Inf(1)))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry with non-finite score is not valid JSON: %v", err)
	}
	if entry.Fields["score"] != "+Inf" {
		t.Errorf("score = %v, want +Inf", entry.Fields["score"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("scheduler"), Algorithm("rombach"))
	child.Info("trial finished", RunIndex(2))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Component != "scheduler" {
		t.Errorf("component = %q", entry.Component)
	}
	if entry.Algorithm != "rombach" {
		t.Errorf("algorithm = %q", entry.Algorithm)
	}
	if _, ok := entry.Fields[KeyComponent]; ok {
		t.Error("component should be lifted out of fields")
	}
	if entry.Fields["run"] != float64(2) {
		t.Errorf("run = %v", entry.Fields["run"])
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.SetLevel(ErrorLevel)
	if logger.GetLevel() != ErrorLevel {
		t.Errorf("After SetLevel, level = %v, want ErrorLevel", logger.GetLevel())
	}

	logger.Info("info")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}

	logger.Error("error")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	op := StartTimer(logger, "detect", Algorithm("be"))
	op.End(Score(0.5))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Message != "detect" {
		t.Errorf("msg = %q", entry.Message)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}
	if entry.Fields["score"] != 0.5 {
		t.Errorf("score = %v", entry.Fields["score"])
	}
}

func TestTimedOperationEndError(t *testing.T) {
	var buf bytes.Buffer
	op := StartTimer(NewJSONLogger(&buf, InfoLevel), "detect")
	op.EndError(errors.New("all trials failed"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "ERROR" || entry.Fields["error"] != "all trials failed" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(NopLogger); !ok {
		t.Error("OrNop(nil) should return NopLogger")
	}
	l := NewJSONLogger(&bytes.Buffer{}, InfoLevel)
	if OrNop(l) != Logger(l) {
		t.Error("OrNop should pass through a non-nil logger")
	}
}
