package metrics

import (
	"fmt"
	"slices"
)

// Registry is an ordered, immutable set of uniquely named metrics.
type Registry struct {
	metrics []Metric
	index   map[string]int
}

// NewRegistry registers ms in order. Empty or duplicate names are rejected.
func NewRegistry(ms ...Metric) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(ms))}
	for _, m := range ms {
		if err := r.register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(m Metric) error {
	if m == nil || m.Name() == "" {
		return fmt.Errorf("metric registry: unnamed metric")
	}
	if _, dup := r.index[m.Name()]; dup {
		return fmt.Errorf("metric registry: duplicate metric %q", m.Name())
	}
	r.index[m.Name()] = len(r.metrics)
	r.metrics = append(r.metrics, m)
	return nil
}

// Default returns a registry with every built-in metric, in report order.
func Default() *Registry {
	r, err := NewRegistry(
		RampUp{},
		BusFactor{},
		PerformanceClaims{},
		License{},
		DatasetAndCode{},
		DatasetQuality{},
		CodeQuality{},
		Reproducibility{},
		Reviewedness{},
		TreeScore{},
		Size{},
		CLIPresence{},
		EnvHygiene{},
		ReadmeSummary{},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the metrics in registration order.
func (r *Registry) All() []Metric { return slices.Clone(r.metrics) }

// Names returns the metric names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

// Get returns the named metric.
func (r *Registry) Get(name string) (Metric, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.metrics[i], true
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int { return len(r.metrics) }
