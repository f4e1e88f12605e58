package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/engine"
	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/observability"
	"github.com/matzehuels/trustscore/pkg/report"
	"github.com/matzehuels/trustscore/pkg/scorer"
	"github.com/matzehuels/trustscore/pkg/source"
)

// Runner drives artifacts through fetch, scoring and aggregation.
//
// The Runner holds no per-batch state; one Runner may serve several
// batches, also concurrently.
type Runner struct {
	Router      *source.Router
	Engine      *engine.Engine
	Scorer      *scorer.Scorer
	Logger      *log.Logger
	Concurrency int
}

// NewRunner creates a runner processing one artifact at a time.
func NewRunner(router *source.Router, eng *engine.Engine, sc *scorer.Scorer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Router:      router,
		Engine:      eng,
		Scorer:      sc,
		Logger:      logger,
		Concurrency: DefaultConcurrency,
	}
}

// Run scores every URL and calls emit once per URL, in input order, as
// soon as the result and all earlier ones are ready. An emit error stops
// further emission but the remaining artifacts are still counted.
func (r *Runner) Run(ctx context.Context, urls []string, emit func(Result) error) (Stats, error) {
	results := make(chan Result)

	var g errgroup.Group
	g.SetLimit(max(1, r.Concurrency))
	go func() {
		for i, raw := range urls {
			g.Go(func() error {
				res := r.Score(ctx, raw)
				res.Index = i
				results <- res
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var stats Stats
	buf := newReorderBuffer(emit)
	var emitErr error
	for res := range results {
		stats.add(res)
		if emitErr == nil {
			emitErr = buf.add(res)
		}
	}
	return stats, emitErr
}

// Score processes a single URL. It never fails: problems are reported in
// the Result and produce a zeroed row.
func (r *Runner) Score(ctx context.Context, raw string) Result {
	res := Result{URL: raw}

	ref, err := artifact.Classify(raw)
	res.Ref = ref
	if err != nil {
		return r.fail(ctx, res, err)
	}

	h, err := r.Router.For(ref)
	if err != nil {
		return r.fail(ctx, res, err)
	}

	start := time.Now()
	m := h.Fetch(ctx, ref)
	res.Degraded = m.Degraded()
	observability.Scoring().OnFetchComplete(ctx, h.Name(), time.Since(start), len(res.Degraded))
	if !m.Reachable() {
		status, _ := m.StatusOf(source.FieldRepo)
		return r.fail(ctx, res, tserrors.New(status.Code(), "%s reported %s", h.Name(), status))
	}
	if len(res.Degraded) > 0 {
		r.Logger.Debug("fetched with degraded fields", "url", raw, "fields", res.Degraded)
	}

	res.Values = r.Engine.Run(ctx, m)
	net := r.Scorer.Score(res.Values)
	res.Row = report.NewRow(ref, res.Values, net)

	r.Logger.Info("scored artifact", "name", res.Row.Name, "category", res.Row.Category, "net_score", res.Row.NetScore)
	observability.Scoring().OnArtifactComplete(ctx, string(ref.Category), res.Row.NetScore, false)
	return res
}

// fail zeroes the row. Field and metric scoped errors are wrapped as
// PIPELINE_ERROR.
func (r *Runner) fail(ctx context.Context, res Result, err error) Result {
	if !tserrors.AbortsArtifact(err) {
		err = tserrors.Wrap(tserrors.ErrCodePipeline, err, "primary resource unreachable")
	}
	res.Failed = true
	res.Err = tserrors.For(res.URL, err)
	res.Row = report.ZeroRow(res.Ref)
	r.Logger.Warn("artifact failed", "url", res.URL, "code", tserrors.GetCode(err), "err", err)
	observability.Scoring().OnArtifactComplete(ctx, res.Row.Category, 0, true)
	return res
}
