package metrics

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

type named string

func (n named) Name() string                     { return string(n) }
func (n named) AppliesTo(artifact.Category) bool { return true }
func (n named) Score(context.Context, *source.Metadata) (Result, error) {
	return Result{}, nil
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(named("a"), named("b"))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(r.Names(), []string{"a", "b"}) {
		t.Errorf("Names = %v", r.Names())
	}
	if _, ok := r.Get("b"); !ok {
		t.Error("Get(b) not found")
	}
	if _, ok := r.Get("c"); ok {
		t.Error("Get(c) found")
	}

	if _, err := NewRegistry(named("a"), named("a")); err == nil {
		t.Error("duplicate names should be rejected")
	}
	if _, err := NewRegistry(named("")); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestRegistryAllIsCopy(t *testing.T) {
	r := Default()
	all := r.All()
	all[0] = named("changed")
	if r.All()[0].Name() != NameRampUp {
		t.Error("All exposed the registry's internal slice")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	want := []string{
		NameRampUp, NameBusFactor, NamePerformanceClaims, NameLicense,
		NameDatasetAndCode, NameDatasetQuality, NameCodeQuality, NameReproducibility,
		NameReviewedness, NameTreeScore, NameSize, NameCLIPresence, NameEnvHygiene,
		NameReadmeSummary,
	}
	if !slices.Equal(r.Names(), want) {
		t.Errorf("Names = %v", r.Names())
	}

	codeSkipped := map[string]bool{NameSize: true, NamePerformanceClaims: true, NameDatasetQuality: true}
	for _, m := range r.All() {
		if got := m.AppliesTo(artifact.CategoryCode); got == codeSkipped[m.Name()] {
			t.Errorf("%s.AppliesTo(CODE) = %v", m.Name(), got)
		}
		if !m.AppliesTo(artifact.CategoryModel) {
			t.Errorf("%s should apply to models", m.Name())
		}
	}
}

// Every built-in metric must stay within [0,1] on empty and rich input.
func TestDefaultMetricsInRange(t *testing.T) {
	inputs := map[string]*source.Metadata{
		"empty model": source.New(artifact.Ref{Category: artifact.CategoryModel}),
		"empty code":  source.New(artifact.Ref{Category: artifact.CategoryCode}),
		"rich model":  richModel(),
	}
	for name, m := range inputs {
		for _, metric := range Default().All() {
			res, err := metric.Score(context.Background(), m)
			if err != nil {
				t.Errorf("%s/%s: %v", name, metric.Name(), err)
				continue
			}
			if res.Value < 0 || res.Value > 1 {
				t.Errorf("%s/%s = %v out of range", name, metric.Name(), res.Value)
			}
		}
	}
}
