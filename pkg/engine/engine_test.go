package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/trustscore/pkg/artifact"
	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/observability"
	"github.com/matzehuels/trustscore/pkg/source"
)

// fake is a configurable metric.
type fake struct {
	name    string
	value   float64
	err     error
	panics  bool
	sleep   time.Duration
	skipFor artifact.Category
	onRun   func()
}

func (f fake) Name() string { return f.name }

func (f fake) AppliesTo(c artifact.Category) bool { return f.skipFor == "" || c != f.skipFor }

func (f fake) Score(ctx context.Context, _ *source.Metadata) (metrics.Result, error) {
	if f.onRun != nil {
		f.onRun()
	}
	if f.panics {
		panic("boom")
	}
	if f.sleep > 0 {
		time.Sleep(f.sleep)
	}
	return metrics.Result{Value: f.value}, f.err
}

func registry(t *testing.T, ms ...metrics.Metric) *metrics.Registry {
	t.Helper()
	r, err := metrics.NewRegistry(ms...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func model() *source.Metadata {
	return source.New(artifact.Ref{URL: "https://huggingface.co/x/y", Category: artifact.CategoryModel})
}

func TestRunIsolatesFailures(t *testing.T) {
	r := registry(t,
		fake{name: "ok", value: 0.7},
		fake{name: "errors", value: 0.9, err: errors.New("bad input")},
		fake{name: "panics", panics: true},
		fake{name: "slow", value: 1, sleep: 300 * time.Millisecond},
		fake{name: "overflow", value: 4},
	)
	e := New(r, WithTimeout(30*time.Millisecond), WithWorkers(5))
	values := e.Run(context.Background(), model())

	if len(values) != 5 {
		t.Fatalf("got %d values", len(values))
	}
	want := []struct {
		name    string
		value   float64
		outcome observability.Outcome
		code    tserrors.Code
	}{
		{"ok", 0.7, observability.OutcomeOK, ""},
		{"errors", 0, observability.OutcomeError, tserrors.ErrCodeMetric},
		{"panics", 0, observability.OutcomeError, tserrors.ErrCodeMetric},
		{"slow", 0, observability.OutcomeTimeout, tserrors.ErrCodeMetricTimeout},
		{"overflow", 1, observability.OutcomeOK, ""},
	}
	for i, w := range want {
		v := values[i]
		if v.Name != w.name || v.Value != w.value || v.Outcome != w.outcome {
			t.Errorf("values[%d] = %+v, want %s=%v (%s)", i, v, w.name, w.value, w.outcome)
		}
		if w.code != "" && !tserrors.Is(v.Err, w.code) {
			t.Errorf("%s err = %v, want code %s", w.name, v.Err, w.code)
		}
		if v.LatencyMS < 0 {
			t.Errorf("%s latency = %d", w.name, v.LatencyMS)
		}
	}
	if values[3].LatencyMS < 30 {
		t.Errorf("timed out metric latency = %dms, want >= 30", values[3].LatencyMS)
	}
}

func TestRunSkipsInapplicable(t *testing.T) {
	r := registry(t, fake{name: "size", value: 1, skipFor: artifact.CategoryCode})
	code := source.New(artifact.Ref{Category: artifact.CategoryCode})

	v := New(r).Run(context.Background(), code)[0]
	if v.Applicable() || v.Value != 0 || v.LatencyMS != 0 {
		t.Errorf("skipped value = %+v", v)
	}
	if v := New(r).Run(context.Background(), model())[0]; !v.Applicable() || v.Value != 1 {
		t.Errorf("applicable value = %+v", v)
	}
}

func TestRunBoundsWorkers(t *testing.T) {
	var running, peak atomic.Int32
	track := func() {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
	}

	var ms []metrics.Metric
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		ms = append(ms, fake{name: name, onRun: track})
	}
	New(registry(t, ms...), WithWorkers(2)).Run(context.Background(), model())

	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestFrozenClock(t *testing.T) {
	r := registry(t, fake{name: "slow", value: 0.5, sleep: 20 * time.Millisecond})
	e := New(r, WithClock(FrozenClock(time.Unix(0, 0))))

	for range 2 {
		if v := e.Run(context.Background(), model())[0]; v.LatencyMS != 0 || v.Value != 0.5 {
			t.Errorf("value = %+v, want zero latency", v)
		}
	}
}

func TestRunRecordsHooks(t *testing.T) {
	rec := observability.NewRecorder()
	observability.SetScoringHooks(rec)
	defer observability.Reset()

	r := registry(t, fake{name: "ok", value: 1}, fake{name: "bad", err: errors.New("x")})
	New(r).Run(context.Background(), model())

	if rec.MetricCalls("ok", observability.OutcomeOK) != 1 || rec.MetricCalls("bad", observability.OutcomeError) != 1 {
		t.Error("metric outcomes were not recorded")
	}
}

func TestDefaultRegistryOnEmptyMetadata(t *testing.T) {
	values := New(metrics.Default()).Run(context.Background(), model())
	for _, v := range values {
		if v.Err != nil {
			t.Errorf("%s: %v", v.Name, v.Err)
		}
		if v.Value < 0 || v.Value > 1 {
			t.Errorf("%s = %v", v.Name, v.Value)
		}
	}
}
