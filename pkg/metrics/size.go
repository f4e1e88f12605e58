package metrics

import (
	"context"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

// Deployment targets of the size score.
const (
	TargetRaspberryPi = "raspberry_pi"
	TargetJetsonNano  = "jetson_nano"
	TargetDesktopPC   = "desktop_pc"
	TargetAWSServer   = "aws_server"
)

const gib = 1 << 30

// SizeTarget is a device with the artifact size it can comfortably hold.
type SizeTarget struct {
	Name     string
	Capacity int64
}

// SizeTargets lists the targets from smallest to largest.
var SizeTargets = []SizeTarget{
	{TargetRaspberryPi, 2 * gib},
	{TargetJetsonNano, 4 * gib},
	{TargetDesktopPC, 16 * gib},
	{TargetAWSServer, 64 * gib},
}

// Size rates how well the artifact fits each deployment target. A target
// scores 1 - size/capacity, clipped to [0,1]; an unknown size scores 0
// everywhere. The scalar value is the mean over all targets.
type Size struct{}

func (Size) Name() string { return NameSize }

func (Size) AppliesTo(c artifact.Category) bool { return c != artifact.CategoryCode }

func (Size) Score(_ context.Context, m *source.Metadata) (Result, error) {
	targets := ZeroTargets()
	if !m.SizeKnown() {
		return Result{Targets: targets}, nil
	}

	var sum float64
	for _, t := range SizeTargets {
		v := clamp01(1 - float64(m.SizeBytes)/float64(t.Capacity))
		targets[t.Name] = v
		sum += v
	}
	return Result{Value: sum / float64(len(SizeTargets)), Targets: targets}, nil
}

// ZeroTargets returns a size score map with every target set to 0.
func ZeroTargets() map[string]float64 {
	out := make(map[string]float64, len(SizeTargets))
	for _, t := range SizeTargets {
		out[t.Name] = 0
	}
	return out
}
