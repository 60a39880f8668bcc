package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions_Valid(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
}

func TestOptions_ValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"zero order", Options{MaxDerivativeOrder: 0, DefaultMode: "reverse"}},
		{"order too high", Options{MaxDerivativeOrder: 11, DefaultMode: "reverse"}},
		{"unknown mode", Options{MaxDerivativeOrder: 1, DefaultMode: "sideways"}},
		{"unknown log level", Options{MaxDerivativeOrder: 1, DefaultMode: "forward", LogLevel: "loud"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestLoadOptions_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffkit.yaml")
	content := "max_derivative_order: 3\ndefault_mode: forward\nlog_level: debug\nenable_metrics: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, uint(3), opts.MaxDerivativeOrder)
	assert.Equal(t, "forward", opts.DefaultMode)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.False(t, opts.EnableMetrics)
}

func TestLoadOptions_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_mode: hessian\n"), 0644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "hessian", opts.DefaultMode)
	assert.Equal(t, DefaultOptions().MaxDerivativeOrder, opts.MaxDerivativeOrder)
}

func TestLoadOptions_MissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadOptions_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_derivative_order: 99\n"), 0644))

	_, err := LoadOptions(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
