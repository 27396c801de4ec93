package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Level orders log entries by severity. A detection logs its request at
// InfoLevel, failed trials at WarnLevel and aborted requests at ErrorLevel;
// per-trial decisions such as early stops go to DebugLevel.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// MarshalText renders the level in lower case, the form used in config files.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText accepts a level name in any case; "warning" is an alias for
// WARN. Unknown names are an error.
func (l *Level) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	if name == "WARNING" {
		name = "WARN"
	}
	for lvl, n := range levelNames {
		if n == name {
			*l = Level(lvl)
			return nil
		}
	}
	return fmt.Errorf("logging: unknown level %q", text)
}

// ParseLevel is the lenient form of UnmarshalText: unknown names map to
// InfoLevel.
func ParseLevel(s string) Level {
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return InfoLevel
	}
	return l
}

// Keys shared by the field helpers. KeyRequestID, KeyComponent and
// KeyAlgorithm are lifted out of the field map onto the entry itself so a
// detection's lines can be correlated without unpacking fields.
const (
	KeyRequestID = "request_id"
	KeyComponent = "component"
	KeyAlgorithm = "algorithm"
	KeyRun       = "run"
	KeySeed      = "seed"
	KeyScore     = "score"
	KeyNodes     = "nodes"
	KeyEdges     = "edges"
	KeyLatency   = "latency"
	KeyCount     = "count"
	KeyError     = "error"
)

// Field is one structured key-value pair.
type Field struct {
	Key   string
	Value any
}

// Logger is implemented by JSONLogger and NopLogger. Detector and scheduler
// accept any Logger and fall back to NopLogger when given nil.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes one JSON object per line. Children created by With
// share the parent's writer lock.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
}

// LogEntry is the JSON shape of one line.
type LogEntry struct {
	Time      string         `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	RequestID string         `json:"request_id,omitempty"`
	Component string         `json:"component,omitempty"`
	Algorithm string         `json:"algorithm,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// lift moves the correlation keys from fields onto the entry.
func (e *LogEntry) lift(fields map[string]any) {
	for key, dst := range map[string]*string{
		KeyRequestID: &e.RequestID,
		KeyComponent: &e.Component,
		KeyAlgorithm: &e.Algorithm,
	} {
		if v, ok := fields[key].(string); ok {
			*dst = v
			delete(fields, key)
		}
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }
func NewNopLogger() Logger               { return NopLogger{} }

// TimedOperation logs a detection step once it ends, with its latency.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
