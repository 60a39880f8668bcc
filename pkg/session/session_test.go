package session

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmathis/diffkit/pkg/derived"
	"github.com/cmathis/diffkit/pkg/logging"
)

func newTestSession(t *testing.T) *Session[string] {
	t.Helper()
	opts := DefaultOptions()
	opts.EnableMetrics = false
	return New[string](opts, logging.NewNopLogger())
}

func TestNew_AssignsSessionID(t *testing.T) {
	s1 := newTestSession(t)
	s2 := newTestSession(t)
	assert.NotEmpty(t, s1.ID)
	assert.NotEqual(t, s1.ID, s2.ID)
}

func TestNew_InvalidOptionsFallBackToDefaults(t *testing.T) {
	s := New[string](Options{MaxDerivativeOrder: 0, DefaultMode: "bogus"}, logging.NewNopLogger())
	assert.Equal(t, DefaultOptions().DefaultMode, s.Options().DefaultMode)
}

func TestNew_AppliesLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)
	opts := DefaultOptions()
	opts.LogLevel = "error"
	opts.EnableMetrics = false

	New[string](opts, logger)

	assert.Empty(t, buf.String(), "info-level start entry must be suppressed at error level")
}

func TestNew_FallbackDiscardsValidFieldsToo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)

	// DefaultMode is invalid, LogLevel is valid; the fallback replaces the
	// whole struct, so the default info level applies and the start entry
	// is emitted despite LogLevel asking for error.
	s := New[string](Options{MaxDerivativeOrder: 1, DefaultMode: "bogus", LogLevel: "error"}, logger)

	assert.Equal(t, DefaultOptions().LogLevel, s.Options().LogLevel)
	assert.Contains(t, buf.String(), "generation session started")
}

func TestSession_DefaultModeApplied(t *testing.T) {
	s := newTestSession(t)

	// Generation result recorded without an explicit mode.
	s.Record(derived.Entry[string]{
		Target:       "f",
		Order:        1,
		Independents: []string{"x"},
		Derived:      "f_grad",
	})

	unset := derived.Request[string]{Target: "f", Order: 1, Independents: []string{"x"}}
	_, ok := s.Lookup(unset)
	require.True(t, ok, "unset mode must be looked up under the session default")

	explicit := unset
	explicit.Mode = derived.ModeReverse
	e, ok := s.Lookup(explicit)
	require.True(t, ok, "entry must be stored under the canonical default mode")
	assert.Equal(t, "f_grad", e.Derived)

	forward := unset
	forward.Mode = derived.ModeForward
	_, ok = s.Lookup(forward)
	assert.False(t, ok, "an explicit non-default mode must still miss")
}

func TestSession_LookupAndRecord(t *testing.T) {
	s := newTestSession(t)
	req := derived.Request[string]{
		Target:       "f",
		Mode:         derived.ModeReverse,
		Order:        1,
		Independents: []string{"x"},
	}

	_, ok := s.Lookup(req)
	require.False(t, ok, "cache must miss before anything is recorded")

	s.Record(derived.Entry[string]{
		Target:       "f",
		Mode:         derived.ModeReverse,
		Order:        1,
		Independents: []string{"x"},
		Derived:      "f_grad",
	})

	e, ok := s.Lookup(req)
	require.True(t, ok)
	assert.Equal(t, "f_grad", e.Derived)
	assert.True(t, s.Collector().IsDerivative("f_grad"))
}

func TestSession_CloseLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)
	opts := DefaultOptions()
	opts.EnableMetrics = false

	s := New[string](opts, logger)
	s.Close()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2, "expected a start and a finish entry")

	var last struct {
		Message string         `json:"msg"`
		Fields  map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
	assert.Equal(t, "generation session finished", last.Message)
	assert.Equal(t, s.ID, last.Fields["session_id"])
}
