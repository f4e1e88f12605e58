package metrics

import (
	"context"
	"regexp"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

// RampUp rates how quickly a newcomer can start using the artifact from
// its README alone.
type RampUp struct{}

func (RampUp) Name() string                     { return NameRampUp }
func (RampUp) AppliesTo(artifact.Category) bool { return true }

const rampUpWords = 500

func (RampUp) Score(_ context.Context, m *source.Metadata) (Result, error) {
	d := parseDocument(m.Readme)
	if d.empty() {
		return score(0), nil
	}

	v := 0.3 * ratio(float64(d.words), rampUpWords)
	if d.hasInstall() {
		v += 0.25
	}
	if d.hasHeading("usage", "quickstart", "quick start", "example", "getting started", "how to use", "tutorial") {
		v += 0.2
	}
	v += 0.15 * ratio(float64(d.countBlocks(anyBlock)), 3)
	if d.hasHeading("documentation", "docs", "faq") || d.mentions("readthedocs", "/docs") {
		v += 0.1
	}
	return score(v), nil
}

// Reproducibility rates whether the README contains demo code a reader
// could run as written.
type Reproducibility struct{}

func (Reproducibility) Name() string                     { return NameReproducibility }
func (Reproducibility) AppliesTo(artifact.Category) bool { return true }

func (Reproducibility) Score(_ context.Context, m *source.Metadata) (Result, error) {
	d := parseDocument(m.Readme)
	if d.empty() {
		return score(0), nil
	}

	install := d.hasInstall()
	if d.countBlocks(runnable) == 0 {
		if install {
			return score(0.2), nil
		}
		return score(0), nil
	}

	v := 0.5
	if install {
		v += 0.25
	}
	if d.hasHeading("usage", "example", "quickstart", "quick start", "inference", "how to use", "demo") {
		v += 0.25
	}
	return score(v), nil
}

// PerformanceClaims rates how well reported performance is evidenced:
// structured evaluation results beat benchmark tables, which beat prose.
type PerformanceClaims struct{}

func (PerformanceClaims) Name() string { return NamePerformanceClaims }

func (PerformanceClaims) AppliesTo(c artifact.Category) bool { return c != artifact.CategoryCode }

var (
	benchmarkRE = regexp.MustCompile(`\b(accuracy|f1|bleu|rouge(-l)?|wer|cer|perplexity|exact match|precision|recall|auc|mmlu|top-1|benchmarks?)\b`)
	figureRE    = regexp.MustCompile(`\d+(\.\d+)?\s?%|\b0\.\d{2,}\b|\b\d{1,3}\.\d+\b`)
)

func (PerformanceClaims) Score(_ context.Context, m *source.Metadata) (Result, error) {
	if len(m.Card.EvalResults) > 0 {
		return score(1), nil
	}

	d := parseDocument(m.Readme)
	section := d.hasHeading("evaluation", "results", "benchmark", "performance", "metrics")
	keywords := benchmarkRE.MatchString(d.lower)
	figures := figureRE.MatchString(d.lower)

	var v float64
	switch {
	case section && d.tables > 0 && figures:
		v = 0.8
	case (section || keywords) && figures:
		v = 0.5
	case section || keywords:
		v = 0.25
	}
	if len(m.Card.Metrics) > 0 {
		v = max(v, 0.3)
	}
	return score(v), nil
}

// ReadmeSummary reports the auxiliary summary score computed during the
// fetch phase. Without one it returns a neutral value.
type ReadmeSummary struct{}

// NeutralSummary is the score used when no auxiliary score is available.
const NeutralSummary = 0.5

func (ReadmeSummary) Name() string                     { return NameReadmeSummary }
func (ReadmeSummary) AppliesTo(artifact.Category) bool { return true }

func (ReadmeSummary) Score(_ context.Context, m *source.Metadata) (Result, error) {
	if m.AuxScore == nil {
		return score(NeutralSummary), nil
	}
	return score(*m.AuxScore), nil
}
