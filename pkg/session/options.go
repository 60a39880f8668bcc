// Package session owns the state of one derivative-generation session: the
// collector of produced derivatives, the logger, and the metrics registry.
// A session is created when the orchestrator starts processing a translation
// unit and closed when it finishes; nothing in it survives across sessions.
package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidOptions is returned when session options fail validation.
var ErrInvalidOptions = errors.New("invalid session options")

// validate is a singleton validator instance
var validate = validator.New()

// Options configures a generation session.
type Options struct {
	// MaxDerivativeOrder caps the derivative order the session will plan for.
	MaxDerivativeOrder uint `yaml:"max_derivative_order" validate:"min=1,max=10"`

	// DefaultMode is the differentiation mode used when a request leaves it
	// unset.
	DefaultMode string `yaml:"default_mode" validate:"oneof=forward reverse hessian jacobian"`

	// LogLevel selects the session logger's minimum level.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// EnableMetrics wires the session into the shared Prometheus registry.
	EnableMetrics bool `yaml:"enable_metrics"`
}

// DefaultOptions returns the options used when the host supplies none.
func DefaultOptions() Options {
	return Options{
		MaxDerivativeOrder: 2,
		DefaultMode:        "reverse",
		LogLevel:           "info",
		EnableMetrics:      true,
	}
}

// Validate checks the options against their constraints.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// LoadOptions reads and validates session options from a YAML file.
func LoadOptions(path string) (Options, error) {
	var opts Options

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file %s: %w", path, err)
	}

	opts = DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
