// Package pipeline scores a batch of artifact URLs.
//
// Each URL goes through the same stages:
//
//  1. Classify: derive the artifact reference from the URL
//  2. Fetch: the matching source handler builds the Metadata
//  3. Score: the engine runs every metric concurrently
//  4. Aggregate: the scorer computes the net score
//  5. Emit: one report row is handed to the caller
//
// A failure at any stage is contained to its artifact: the artifact is
// emitted as a zeroed row and the batch continues. Artifacts may be
// processed concurrently; rows are always emitted in input order.
//
// # Usage
//
//	router := pipeline.NewRouter(pipeline.Sources{Cache: cache.NewMemoryCache()})
//	runner := pipeline.NewRunner(router, engine.New(metrics.Default()), sc, logger)
//	w := report.NewWriter(os.Stdout)
//	stats, err := runner.Run(ctx, urls, func(r pipeline.Result) error {
//	    return w.Write(r.Row)
//	})
package pipeline

import (
	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/report"
	"github.com/matzehuels/trustscore/pkg/source"
)

// DefaultConcurrency is the number of artifacts processed at once.
const DefaultConcurrency = 1

// Result is the outcome of one input URL.
type Result struct {
	// Index is the position of the URL in the input.
	Index int
	URL   string
	Ref   artifact.Ref
	Row   report.Row
	// Values holds every metric value, including metrics without a row
	// column. It is nil for failed artifacts.
	Values []metrics.Value
	// Degraded lists the fields the handler could not fetch normally.
	Degraded []source.Field
	Failed   bool
	Err      error
}

// Stats summarizes a batch.
type Stats struct {
	Total  int
	Failed int
}

// AllFailed reports whether a non-empty batch produced no scored artifact.
func (s Stats) AllFailed() bool { return s.Total > 0 && s.Failed == s.Total }

func (s *Stats) add(r Result) {
	s.Total++
	if r.Failed {
		s.Failed++
	}
}
