package observability

import (
	"context"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Recorder accumulates counters from every hook and renders them in the
// Prometheus text exposition format. It implements ScoringHooks, CacheHooks
// and HTTPHooks and is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	metricCalls   map[[2]string]uint64 // (metric, outcome)
	metricSeconds map[string]float64   // metric
	fetchSeconds  map[string]float64   // source
	fetchDegraded map[string]uint64    // source
	artifacts     map[[2]string]uint64 // (category, status)
	cacheEvents   map[[2]string]uint64 // (key type, event)
	httpResponses map[[2]string]uint64 // (host, code)
	httpErrors    map[string]uint64    // host
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		metricCalls:   make(map[[2]string]uint64),
		metricSeconds: make(map[string]float64),
		fetchSeconds:  make(map[string]float64),
		fetchDegraded: make(map[string]uint64),
		artifacts:     make(map[[2]string]uint64),
		cacheEvents:   make(map[[2]string]uint64),
		httpResponses: make(map[[2]string]uint64),
		httpErrors:    make(map[string]uint64),
	}
}

func (r *Recorder) OnFetchComplete(_ context.Context, source string, d time.Duration, degraded int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchSeconds[source] += d.Seconds()
	r.fetchDegraded[source] += uint64(degraded)
}

func (r *Recorder) OnMetricComplete(_ context.Context, metric string, d time.Duration, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metricCalls[[2]string{metric, string(outcome)}]++
	r.metricSeconds[metric] += d.Seconds()
}

func (r *Recorder) OnArtifactComplete(_ context.Context, category string, _ float64, failed bool) {
	status := "ok"
	if failed {
		status = "failed"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts[[2]string{category, status}]++
}

func (r *Recorder) OnCacheHit(_ context.Context, keyType string)   { r.cacheEvent(keyType, "hit") }
func (r *Recorder) OnCacheMiss(_ context.Context, keyType string)  { r.cacheEvent(keyType, "miss") }
func (r *Recorder) OnCacheStale(_ context.Context, keyType string) { r.cacheEvent(keyType, "stale") }

func (r *Recorder) cacheEvent(keyType, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheEvents[[2]string{keyType, event}]++
}

func (r *Recorder) OnResponse(_ context.Context, host string, code int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.httpResponses[[2]string{host, strconv.Itoa(code)}]++
}

func (r *Recorder) OnError(_ context.Context, host string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.httpErrors[host]++
}

// MetricCalls returns how many invocations of metric ended with outcome.
func (r *Recorder) MetricCalls(metric string, outcome Outcome) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metricCalls[[2]string{metric, string(outcome)}]
}

// WriteText writes every family in the Prometheus text format. Families and
// series are sorted so the output is stable.
func (r *Recorder) WriteText(w io.Writer) error {
	r.mu.Lock()
	families := []*dto.MetricFamily{
		counterFamily2("trustscore_metric_invocations_total", "Metric invocations by outcome.",
			"metric", "outcome", r.metricCalls),
		counterFamily1("trustscore_metric_seconds_total", "Cumulative metric wall-clock time.",
			"metric", r.metricSeconds),
		counterFamily1("trustscore_fetch_seconds_total", "Cumulative handler fetch time.",
			"source", r.fetchSeconds),
		counterFamily1("trustscore_fetch_degraded_fields_total", "Fields marked missing or stale.",
			"source", toFloat(r.fetchDegraded)),
		counterFamily2("trustscore_artifacts_total", "Emitted rows by category and status.",
			"category", "status", r.artifacts),
		counterFamily2("trustscore_cache_events_total", "Cache lookups by result.",
			"kind", "event", r.cacheEvents),
		counterFamily2("trustscore_http_responses_total", "HTTP responses by host and status.",
			"host", "code", r.httpResponses),
		counterFamily1("trustscore_http_errors_total", "HTTP transport failures by host.",
			"host", toFloat(r.httpErrors)),
	}
	r.mu.Unlock()

	for _, mf := range families {
		if len(mf.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func counterFamily1(name, help, label string, values map[string]float64) *dto.MetricFamily {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	mf := newCounterFamily(name, help)
	for _, k := range keys {
		mf.Metric = append(mf.Metric, counter(values[k], labelPair(label, k)))
	}
	return mf
}

func counterFamily2(name, help, l1, l2 string, values map[[2]string]uint64) *dto.MetricFamily {
	keys := make([][2]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b [2]string) int {
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		if a[1] < b[1] {
			return -1
		}
		if a[1] > b[1] {
			return 1
		}
		return 0
	})

	mf := newCounterFamily(name, help)
	for _, k := range keys {
		mf.Metric = append(mf.Metric, counter(float64(values[k]), labelPair(l1, k[0]), labelPair(l2, k[1])))
	}
	return mf
}

func newCounterFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
}

func counter(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{Label: labels, Counter: &dto.Counter{Value: ptr(v)}}
}

func labelPair(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: ptr(name), Value: ptr(value)}
}

func toFloat(m map[string]uint64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = float64(v)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

var (
	_ ScoringHooks = (*Recorder)(nil)
	_ CacheHooks   = (*Recorder)(nil)
	_ HTTPHooks    = (*Recorder)(nil)
)
