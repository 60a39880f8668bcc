package session

import (
	"github.com/google/uuid"

	"github.com/cmathis/diffkit/pkg/derived"
	"github.com/cmathis/diffkit/pkg/logging"
	"github.com/cmathis/diffkit/pkg/metrics"
)

// Session carries the per-session state of the generation orchestrator. It
// is single-threaded by contract: one compilation session at a time, no
// internal locking.
type Session[Fn comparable] struct {
	// ID identifies the session in logs and diagnostics.
	ID string

	opts      Options
	collector *derived.Collector[Fn]
	logger    logging.Logger
	metrics   *metrics.Registry

	hits   int
	misses int
}

// New creates a session with the given options. Invalid options fall back
// to defaults after logging; the session itself never fails to start.
func New[Fn comparable](opts Options, logger logging.Logger) *Session[Fn] {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := opts.Validate(); err != nil {
		logger.Warn("session options invalid, using defaults", logging.Error(err))
		opts = DefaultOptions()
	}
	if opts.LogLevel != "" {
		logger.SetLevel(logging.ParseLevel(opts.LogLevel))
	}

	id := uuid.NewString()
	s := &Session[Fn]{
		ID:        id,
		opts:      opts,
		collector: derived.NewCollector[Fn](),
		logger:    logger.With(logging.SessionID(id)),
	}

	if opts.EnableMetrics {
		s.metrics = metrics.DefaultRegistry()
		s.metrics.RecordSessionStart()
	}

	s.logger.Info("generation session started",
		logging.String("default_mode", opts.DefaultMode),
		logging.Uint("max_order", opts.MaxDerivativeOrder))
	return s
}

// Collector returns the session's derivative registry for callers that need
// the raw, uninstrumented surface.
func (s *Session[Fn]) Collector() *derived.Collector[Fn] {
	return s.collector
}

// Logger returns the session-scoped logger.
func (s *Session[Fn]) Logger() logging.Logger {
	return s.logger
}

// Metrics returns the session's metrics registry, or nil when metrics are
// disabled.
func (s *Session[Fn]) Metrics() *metrics.Registry {
	return s.metrics
}

// Options returns the options the session was created with.
func (s *Session[Fn]) Options() Options {
	return s.opts
}

// Lookup consults the derivative cache for req, recording the hit or miss.
// A request that leaves Mode unset is looked up under the session's default
// mode.
func (s *Session[Fn]) Lookup(req derived.Request[Fn]) (derived.Entry[Fn], bool) {
	req = s.normalize(req)
	e, ok := s.collector.Find(req)
	if ok {
		s.hits++
	} else {
		s.misses++
	}
	if s.metrics != nil {
		s.metrics.RecordLookup(ok)
	}
	s.logger.Debug("derivative cache lookup",
		logging.String("request", req.Key()),
		logging.Bool("hit", ok))
	return e, ok
}

// Record registers a freshly generated derivative. An unset Mode is
// canonicalized to the session's default before storing, so later lookups
// under either spelling hit. Callers are expected to have checked Lookup
// first; Record does not reject duplicates.
func (s *Session[Fn]) Record(e derived.Entry[Fn]) {
	if e.Mode == derived.ModeUnknown {
		e.Mode = derived.ParseMode(s.opts.DefaultMode)
	}
	s.collector.Add(e)
	if s.metrics != nil {
		s.metrics.RecordEntry(s.collector.Len())
	}
	s.logger.Debug("derivative recorded",
		logging.String("mode", e.Mode.String()),
		logging.Uint("order", e.Order))
}

// normalize fills request fields the orchestrator left unset.
func (s *Session[Fn]) normalize(req derived.Request[Fn]) derived.Request[Fn] {
	if req.Mode == derived.ModeUnknown {
		req.Mode = derived.ParseMode(s.opts.DefaultMode)
	}
	return req
}

// Close ends the session and logs a summary. The session must not be used
// afterwards.
func (s *Session[Fn]) Close() {
	s.logger.Info("generation session finished",
		logging.Int("entries", s.collector.Len()),
		logging.Int("cache_hits", s.hits),
		logging.Int("cache_misses", s.misses))
}
