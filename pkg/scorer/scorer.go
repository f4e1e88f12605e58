// Package scorer aggregates metric values into a weighted net score.
package scorer

import (
	"fmt"
	"maps"
	"math"
	"strings"
	"time"

	"github.com/matzehuels/trustscore/pkg/metrics"
)

// Policy decides what inapplicable metrics contribute.
type Policy string

const (
	// PolicyFixed gives inapplicable metrics their default contribution of 0.
	// The net score of a CODE repository therefore tops out below 1.
	PolicyFixed Policy = "fixed"
	// PolicyRedistribute spreads the weight of inapplicable metrics over the
	// applicable ones in proportion to their own weights.
	PolicyRedistribute Policy = "redistribute"
)

// ParsePolicy parses a policy name. The empty string selects PolicyFixed.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyFixed, nil
	case PolicyFixed, PolicyRedistribute:
		return p, nil
	}
	return "", fmt.Errorf("unknown weight policy %q (want %s or %s)", s, PolicyFixed, PolicyRedistribute)
}

// DefaultWeights is the documented weight table. It sums to 1.
// cli_presence and env_hygiene are reported but carry no weight.
var DefaultWeights = map[string]float64{
	metrics.NameLicense:           0.14,
	metrics.NameRampUp:            0.12,
	metrics.NameBusFactor:         0.10,
	metrics.NamePerformanceClaims: 0.10,
	metrics.NameReproducibility:   0.10,
	metrics.NameDatasetQuality:    0.09,
	metrics.NameSize:              0.08,
	metrics.NameDatasetAndCode:    0.08,
	metrics.NameCodeQuality:       0.08,
	metrics.NameReviewedness:      0.05,
	metrics.NameTreeScore:         0.05,
	metrics.NameReadmeSummary:     0.01,
	metrics.NameCLIPresence:       0,
	metrics.NameEnvHygiene:        0,
}

// NetScore is the aggregate of one artifact's metric values.
type NetScore struct {
	Value     float64
	LatencyMS int64
}

// Scorer computes net scores. It is immutable and safe for concurrent use.
type Scorer struct {
	weights map[string]float64
	policy  Policy
	now     func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides entries of the default weight table.
func WithWeights(w map[string]float64) Option {
	return func(s *Scorer) { maps.Copy(s.weights, w) }
}

// WithPolicy selects the inapplicable-metric policy.
func WithPolicy(p Policy) Option {
	return func(s *Scorer) { s.policy = p }
}

// WithClock replaces the clock used to time aggregation.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scorer. Every weight must lie in [0,1].
func New(opts ...Option) (*Scorer, error) {
	s := &Scorer{weights: maps.Clone(DefaultWeights), policy: PolicyFixed, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	for name, w := range s.weights {
		if w < 0 || w > 1 || math.IsNaN(w) {
			return nil, fmt.Errorf("weight for %s must be in [0,1], got %v", name, w)
		}
	}
	if _, err := ParsePolicy(string(s.policy)); err != nil {
		return nil, err
	}
	return s, nil
}

// Policy returns the configured policy.
func (s *Scorer) Policy() Policy { return s.policy }

// Weight returns the weight of a metric; unknown metrics weigh 0.
func (s *Scorer) Weight(name string) float64 { return s.weights[name] }

// Weights returns a copy of the weight table.
func (s *Scorer) Weights() map[string]float64 { return maps.Clone(s.weights) }

// Score computes the net score over values, which are summed in the order
// given. The latency is the sum of all metric latencies plus the time
// spent aggregating.
func (s *Scorer) Score(values []metrics.Value) NetScore {
	start := s.now()

	var sum, total, applicable float64
	var latency int64
	for _, v := range values {
		latency += max(0, v.LatencyMS)
		w := s.weights[v.Name]
		total += w
		if !v.Applicable() {
			continue
		}
		applicable += w
		sum += w * v.Value
	}

	if s.policy == PolicyRedistribute && applicable > 0 {
		sum *= total / applicable
	}

	overhead := max(0, s.now().Sub(start)).Milliseconds()
	return NetScore{Value: min(max(sum, 0), 1), LatencyMS: latency + overhead}
}
