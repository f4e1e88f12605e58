package metrics

import (
	"context"
	"strings"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/dag"
	"github.com/matzehuels/trustscore/pkg/deps"
	"github.com/matzehuels/trustscore/pkg/source"
)

// TreeScore rates the declared dependency graph: wide fan-out, deep
// chains and known problematic packages lower the score. Models also
// count their base-model and dataset lineage.
type TreeScore struct{}

func (TreeScore) Name() string                     { return NameTreeScore }
func (TreeScore) AppliesTo(artifact.Category) bool { return true }

const (
	comfortableFanOut = 10
	comfortableDepth  = 3
	maxFanOutPenalty  = 0.4
	maxDepthPenalty   = 0.3
	problematicCost   = 0.5
)

// problematicPackages are normalized names of packages that were
// compromised, typosquatted or are abandoned stubs.
var problematicPackages = map[string]bool{
	"event-stream":     true,
	"flatmap-stream":   true,
	"colourama":        true,
	"python3-dateutil": true,
	"jeilyfish":        true,
	"ctx":              true,
	"pytorch":          true,
	"sklearn":          true,
	"node-ipc":         true,
	"torchtriton":      true,
	"request":          true,
	"left-pad":         true,
	"pycrypto":         true,
	"pickle5":          true,
	"distutils":        true,
	"setup-tools":      true,
	"urllib":           true,
	"beautifulsoup":    true,
	"tensorflow-gpu":   true,
}

func (TreeScore) Score(ctx context.Context, m *source.Metadata) (Result, error) {
	g := buildGraph(m)
	if g.OutDegree(deps.ProjectRoot) == 0 {
		return score(0), nil
	}

	v := 1.0
	direct := g.OutDegree(deps.ProjectRoot)
	v -= min(maxFanOutPenalty, float64(max(0, direct-comfortableFanOut))/100)

	if depth := g.Depth(deps.ProjectRoot); depth > comfortableDepth {
		v -= min(maxDepthPenalty, 0.1*float64(depth-comfortableDepth))
	}

	for _, id := range g.Reachable(deps.ProjectRoot) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if problematicPackages[id] {
			v -= problematicCost
		}
	}
	return score(v), nil
}

// buildGraph merges manifests and lineage edges under the project root.
func buildGraph(m *source.Metadata) *dag.Graph {
	g := deps.Merge(m.Manifests)
	for _, e := range m.Lineage {
		from := e.From
		if from == m.Ref.ID {
			from = deps.ProjectRoot
		}
		g.Add(from, lineageKind(from), "lineage")
		g.Add(e.To, lineageKind(e.To), "lineage")
		_ = g.Link(from, e.To)
	}
	return g
}

func lineageKind(id string) dag.Kind {
	if strings.HasPrefix(id, "datasets/") {
		return dag.KindDataset
	}
	return dag.KindModel
}
