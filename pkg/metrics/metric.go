package metrics

import (
	"context"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/observability"
	"github.com/matzehuels/trustscore/pkg/source"
)

// Metric names as they appear in report rows.
const (
	NameRampUp            = "ramp_up_time"
	NameBusFactor         = "bus_factor"
	NamePerformanceClaims = "performance_claims"
	NameLicense           = "license"
	NameDatasetAndCode    = "dataset_and_code_score"
	NameDatasetQuality    = "dataset_quality"
	NameCodeQuality       = "code_quality"
	NameReproducibility   = "reproducibility"
	NameReviewedness      = "reviewedness"
	NameTreeScore         = "tree_score"
	NameSize              = "size_score"
	NameCLIPresence       = "cli_presence"
	NameEnvHygiene        = "env_hygiene"
	NameReadmeSummary     = "readme_summary"
)

// Metric scores one aspect of an artifact.
//
// Score must be a pure function of the Metadata: no I/O and no shared
// mutable state, so metrics can run concurrently in any order. Long
// computations should return when ctx is done.
type Metric interface {
	Name() string
	// AppliesTo reports whether the metric is meaningful for a category.
	AppliesTo(c artifact.Category) bool
	Score(ctx context.Context, m *source.Metadata) (Result, error)
}

// Result is what a metric computes. Value is in [0,1].
type Result struct {
	Value float64
	// Targets holds per-target scores of multi-target metrics; nil otherwise.
	Targets map[string]float64
}

// Value is the outcome of one metric invocation for one artifact.
type Value struct {
	Name      string                `json:"name"`
	Value     float64               `json:"value"`
	Targets   map[string]float64    `json:"targets,omitempty"`
	LatencyMS int64                 `json:"latency_ms"`
	Outcome   observability.Outcome `json:"outcome"`
	Err       error                 `json:"-"`
}

// Applicable reports whether the metric ran for the artifact's category.
func (v Value) Applicable() bool { return v.Outcome != observability.OutcomeSkipped }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ratio returns n/d clamped to [0,1], or 0 when d is not positive.
func ratio(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return clamp01(n / d)
}

// score wraps a plain value.
func score(v float64) Result { return Result{Value: clamp01(v)} }
