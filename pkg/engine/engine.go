// Package engine runs a metric registry against one artifact's Metadata.
//
// Metrics run concurrently on a bounded pool. Every invocation gets its own
// deadline and wall-clock timer; a metric that fails, panics or exceeds its
// deadline yields value 0 with the elapsed latency and never affects its
// siblings.
package engine

import (
	"context"
	"errors"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/observability"
	"github.com/matzehuels/trustscore/pkg/source"
)

// DefaultTimeout is the per-metric deadline.
const DefaultTimeout = 3 * time.Second

// Engine executes metrics. It is safe for concurrent use.
type Engine struct {
	registry *metrics.Registry
	workers  int
	timeout  time.Duration
	now      func() time.Time
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of metrics running at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithTimeout sets the per-metric deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock replaces the clock used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger for metric failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// FrozenClock returns a clock that always reports t, which makes every
// latency zero.
func FrozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// New creates an engine for r. The pool defaults to the smaller of the
// registry size and the CPU count.
func New(r *metrics.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: r,
		workers:  max(1, min(r.Len(), runtime.NumCPU())),
		timeout:  DefaultTimeout,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the metrics the engine runs.
func (e *Engine) Registry() *metrics.Registry { return e.registry }

// Run scores m with every registered metric and returns one value per
// metric in registration order. Metrics that do not apply to the
// artifact's category are reported as skipped with value 0.
func (e *Engine) Run(ctx context.Context, m *source.Metadata) []metrics.Value {
	all := e.registry.All()
	values := make([]metrics.Value, len(all))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, metric := range all {
		g.Go(func() error {
			values[i] = e.invoke(ctx, metric, m)
			return nil
		})
	}
	_ = g.Wait()
	return values
}

type result struct {
	res metrics.Result
	err error
}

func (e *Engine) invoke(ctx context.Context, metric metrics.Metric, m *source.Metadata) metrics.Value {
	v := metrics.Value{Name: metric.Name(), Outcome: observability.OutcomeOK}
	if !metric.AppliesTo(m.Ref.Category) {
		v.Outcome = observability.OutcomeSkipped
		observability.Scoring().OnMetricComplete(ctx, v.Name, 0, v.Outcome)
		return v
	}

	start := e.now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Buffered so an abandoned metric can still deliver and exit.
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: tserrors.New(tserrors.ErrCodeMetric, "metric %s panicked: %v", metric.Name(), r)}
			}
		}()
		res, err := metric.Score(ctx, m)
		done <- result{res: res, err: err}
	}()

	select {
	case r := <-done:
		switch {
		case errors.Is(r.err, context.DeadlineExceeded):
			v.Err = tserrors.Wrap(tserrors.ErrCodeMetricTimeout, r.err, "metric %s exceeded %s", metric.Name(), e.timeout)
			v.Outcome = observability.OutcomeTimeout
		case r.err != nil:
			v.Err = tserrors.Wrap(tserrors.ErrCodeMetric, r.err, "metric %s", metric.Name())
		case math.IsNaN(r.res.Value):
			v.Err = tserrors.New(tserrors.ErrCodeMetric, "metric %s returned NaN", metric.Name())
		default:
			v.Value = min(max(r.res.Value, 0), 1)
			v.Targets = r.res.Targets
		}
		if v.Err != nil && v.Outcome == observability.OutcomeOK {
			v.Outcome = observability.OutcomeError
		}
	case <-ctx.Done():
		v.Err = tserrors.Wrap(tserrors.ErrCodeMetricTimeout, ctx.Err(), "metric %s exceeded %s", metric.Name(), e.timeout)
		v.Outcome = observability.OutcomeTimeout
	}

	elapsed := max(0, e.now().Sub(start))
	v.LatencyMS = elapsed.Milliseconds()
	if v.Err != nil {
		e.logger.Warn("metric failed", "url", m.Ref.URL, "metric", v.Name, "err", v.Err)
	}
	observability.Scoring().OnMetricComplete(ctx, v.Name, elapsed, v.Outcome)
	return v
}
