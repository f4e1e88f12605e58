// Package report assembles per-artifact report rows and writes them as
// NDJSON, plus an optional markdown summary of a batch.
package report

import (
	"math"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/scorer"
)

// SizeScore holds the per-target size scores.
type SizeScore struct {
	RaspberryPi float64 `json:"raspberry_pi"`
	JetsonNano  float64 `json:"jetson_nano"`
	DesktopPC   float64 `json:"desktop_pc"`
	AWSServer   float64 `json:"aws_server"`
}

// Row is the record emitted for one artifact. Scores are in [0,1] and
// rounded to three decimals; latencies are whole milliseconds.
type Row struct {
	Name                       string    `json:"name"`
	Category                   string    `json:"category"`
	NetScore                   float64   `json:"net_score"`
	NetScoreLatency            int64     `json:"net_score_latency"`
	RampUpTime                 float64   `json:"ramp_up_time"`
	RampUpTimeLatency          int64     `json:"ramp_up_time_latency"`
	BusFactor                  float64   `json:"bus_factor"`
	BusFactorLatency           int64     `json:"bus_factor_latency"`
	PerformanceClaims          float64   `json:"performance_claims"`
	PerformanceClaimsLatency   int64     `json:"performance_claims_latency"`
	License                    float64   `json:"license"`
	LicenseLatency             int64     `json:"license_latency"`
	DatasetAndCodeScore        float64   `json:"dataset_and_code_score"`
	DatasetAndCodeScoreLatency int64     `json:"dataset_and_code_score_latency"`
	DatasetQuality             float64   `json:"dataset_quality"`
	DatasetQualityLatency      int64     `json:"dataset_quality_latency"`
	CodeQuality                float64   `json:"code_quality"`
	CodeQualityLatency         int64     `json:"code_quality_latency"`
	Reproducibility            float64   `json:"reproducibility"`
	ReproducibilityLatency     int64     `json:"reproducibility_latency"`
	Reviewedness               float64   `json:"reviewedness"`
	ReviewednessLatency        int64     `json:"reviewedness_latency"`
	TreeScore                  float64   `json:"tree_score"`
	TreeScoreLatency           int64     `json:"tree_score_latency"`
	SizeScore                  SizeScore `json:"size_score"`
	SizeScoreLatency           int64     `json:"size_score_latency"`
}

// NewRow assembles a row from metric values and their net score. Metrics
// without a row column are ignored; columns without a value stay 0.
func NewRow(ref artifact.Ref, values []metrics.Value, net scorer.NetScore) Row {
	r := ZeroRow(ref)
	r.NetScore = round(net.Value)
	r.NetScoreLatency = max(0, net.LatencyMS)

	for _, v := range values {
		score, latency := round(v.Value), max(0, v.LatencyMS)
		switch v.Name {
		case metrics.NameRampUp:
			r.RampUpTime, r.RampUpTimeLatency = score, latency
		case metrics.NameBusFactor:
			r.BusFactor, r.BusFactorLatency = score, latency
		case metrics.NamePerformanceClaims:
			r.PerformanceClaims, r.PerformanceClaimsLatency = score, latency
		case metrics.NameLicense:
			r.License, r.LicenseLatency = score, latency
		case metrics.NameDatasetAndCode:
			r.DatasetAndCodeScore, r.DatasetAndCodeScoreLatency = score, latency
		case metrics.NameDatasetQuality:
			r.DatasetQuality, r.DatasetQualityLatency = score, latency
		case metrics.NameCodeQuality:
			r.CodeQuality, r.CodeQualityLatency = score, latency
		case metrics.NameReproducibility:
			r.Reproducibility, r.ReproducibilityLatency = score, latency
		case metrics.NameReviewedness:
			r.Reviewedness, r.ReviewednessLatency = score, latency
		case metrics.NameTreeScore:
			r.TreeScore, r.TreeScoreLatency = score, latency
		case metrics.NameSize:
			r.SizeScore = newSizeScore(v.Targets)
			r.SizeScoreLatency = latency
		}
	}
	return r
}

// ZeroRow returns the row of an artifact that could not be scored: every
// score and latency is 0.
func ZeroRow(ref artifact.Ref) Row {
	name := ref.Name
	if name == "" {
		name = ref.URL
	}
	category := ref.Category
	if category == "" {
		category = artifact.CategoryUnknown
	}
	return Row{Name: name, Category: string(category)}
}

func newSizeScore(targets map[string]float64) SizeScore {
	return SizeScore{
		RaspberryPi: round(targets[metrics.TargetRaspberryPi]),
		JetsonNano:  round(targets[metrics.TargetJetsonNano]),
		DesktopPC:   round(targets[metrics.TargetDesktopPC]),
		AWSServer:   round(targets[metrics.TargetAWSServer]),
	}
}

// round clamps v to [0,1] and rounds it to three decimals. NaN becomes 0.
func round(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(min(max(v, 0), 1)*1000) / 1000
}
