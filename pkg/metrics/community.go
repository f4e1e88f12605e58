package metrics

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

// BusFactor rates how many people would have to leave before the project
// stalls. It combines the number of contributors needed to cover half of
// all contributions with the overall contributor count.
type BusFactor struct{}

func (BusFactor) Name() string                     { return NameBusFactor }
func (BusFactor) AppliesTo(artifact.Category) bool { return true }

const (
	healthyBusFactor    = 4
	healthyContributors = 32
)

func (BusFactor) Score(_ context.Context, m *source.Metadata) (Result, error) {
	counts := make([]int, 0, len(m.Contributors))
	total := 0
	for _, c := range m.Contributors {
		if c.Contributions > 0 {
			counts = append(counts, c.Contributions)
			total += c.Contributions
		}
	}
	if total == 0 {
		return score(0), nil
	}
	slices.SortFunc(counts, func(a, b int) int { return cmp.Compare(b, a) })

	critical, covered := 0, 0
	for _, n := range counts {
		critical++
		covered += n
		if 2*covered >= total {
			break
		}
	}

	breadth := math.Log2(float64(len(counts))+1) / math.Log2(healthyContributors+1)
	v := 0.6*ratio(float64(critical), healthyBusFactor) + 0.4*clamp01(breadth)
	if m.Archived {
		v /= 2
	}
	return score(v), nil
}

// Reviewedness is the share of merged pull requests that received an
// approving review.
type Reviewedness struct{}

func (Reviewedness) Name() string                     { return NameReviewedness }
func (Reviewedness) AppliesTo(artifact.Category) bool { return true }

func (Reviewedness) Score(_ context.Context, m *source.Metadata) (Result, error) {
	return score(ratio(float64(m.ReviewedPRs), float64(m.MergedPRs))), nil
}
