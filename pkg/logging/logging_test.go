package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// decode parses one JSON log line.
func decode(t *testing.T, line []byte) (string, string, map[string]any) {
	t.Helper()
	var e struct {
		Level   string         `json:"level"`
		Message string         `json:"msg"`
		Fields  map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(line, &e); err != nil {
		t.Fatalf("invalid log line %q: %v", line, err)
	}
	return e.Level, e.Message, e.Fields
}

// TestJSONLogger_EmitsStructuredLines tests basic field emission
func TestJSONLogger_EmitsStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, DebugLevel)

	l.Info("cache lookup", String("target", "f"), Bool("hit", true))

	level, msg, fields := decode(t, bytes.TrimSpace(buf.Bytes()))
	if level != "INFO" {
		t.Errorf("level = %q, want INFO", level)
	}
	if msg != "cache lookup" {
		t.Errorf("msg = %q", msg)
	}
	if fields["target"] != "f" || fields["hit"] != true {
		t.Errorf("fields = %v", fields)
	}
}

// TestJSONLogger_LevelFiltering tests that entries below the threshold are
// dropped
func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, WarnLevel)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("emitted %d lines, want 2: %v", len(lines), lines)
	}

	l.SetLevel(DebugLevel)
	l.Debug("now kept")
	if !strings.Contains(buf.String(), "now kept") {
		t.Error("SetLevel(DebugLevel) did not enable debug output")
	}
}

// TestJSONLogger_WithPresetFields tests child loggers carrying fields
func TestJSONLogger_WithPresetFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, InfoLevel)
	child := base.With(Component("planner"), SessionID("abc"))

	child.Info("graph pruned", Int("removed", 4))

	_, _, fields := decode(t, bytes.TrimSpace(buf.Bytes()))
	if fields["component"] != "planner" || fields["session_id"] != "abc" {
		t.Errorf("preset fields missing: %v", fields)
	}
	if fields["removed"] != float64(4) {
		t.Errorf("call-site field missing: %v", fields)
	}

	// The parent must not have inherited the child's fields.
	buf.Reset()
	base.Info("plain")
	_, _, fields = decode(t, bytes.TrimSpace(buf.Bytes()))
	if len(fields) != 0 {
		t.Errorf("parent logger leaked fields: %v", fields)
	}
}

// TestParseLevel tests level parsing including the Info fallback
func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
