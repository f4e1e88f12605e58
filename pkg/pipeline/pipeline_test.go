package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/engine"
	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/integrations"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/report"
	"github.com/matzehuels/trustscore/pkg/scorer"
	"github.com/matzehuels/trustscore/pkg/source"
)

// stubHandler serves canned Metadata, sleeping per URL to shuffle
// completion order.
type stubHandler struct {
	meta  map[string]func(artifact.Ref) *source.Metadata
	delay map[string]time.Duration
}

func (s stubHandler) Name() string { return "stub" }

func (s stubHandler) Supports(ref artifact.Ref) bool {
	return ref.Host == artifact.HostGitHub || ref.Host == artifact.HostHuggingFace
}

func (s stubHandler) Fetch(_ context.Context, ref artifact.Ref) *source.Metadata {
	time.Sleep(s.delay[ref.URL])
	if build, ok := s.meta[ref.URL]; ok {
		return build(ref)
	}
	m := source.New(ref)
	m.Mark(source.FieldRepo, source.StatusMissing)
	return m
}

func healthy(ref artifact.Ref) *source.Metadata {
	m := source.New(ref)
	m.Readme = "# Demo\n\n## Usage\n\n```python\nimport demo\n```\n"
	m.LicenseID = "MIT"
	m.Contributors = []integrations.Contributor{{Login: "a", Contributions: 3}, {Login: "b", Contributions: 2}}
	return m
}

func frozenRunner(router *source.Router) *Runner {
	clock := engine.FrozenClock(time.Unix(0, 0))
	sc, err := scorer.New(scorer.WithClock(clock))
	if err != nil {
		panic(err)
	}
	return NewRunner(router, engine.New(metrics.Default(), engine.WithClock(clock)), sc, nil)
}

func collect(t *testing.T, r *Runner, urls []string) ([]Result, Stats) {
	t.Helper()
	var got []Result
	stats, err := r.Run(context.Background(), urls, func(res Result) error {
		got = append(got, res)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return got, stats
}

func TestRunEmitsOneRowPerURLInOrder(t *testing.T) {
	urls := []string{
		"https://github.com/a/slow",
		"not a url",
		"https://huggingface.co/org/model",
		"https://gitlab.com/a/b",
		"https://github.com/a/missing",
		"https://github.com/a/fast",
	}
	h := stubHandler{
		meta: map[string]func(artifact.Ref) *source.Metadata{
			urls[0]: healthy,
			urls[2]: healthy,
			urls[5]: healthy,
		},
		delay: map[string]time.Duration{urls[0]: 40 * time.Millisecond, urls[2]: 10 * time.Millisecond},
	}
	r := frozenRunner(source.NewRouter(h))
	r.Concurrency = 4

	got, stats := collect(t, r, urls)
	if len(got) != len(urls) {
		t.Fatalf("emitted %d results for %d urls", len(got), len(urls))
	}
	for i, res := range got {
		if res.Index != i || res.URL != urls[i] {
			t.Errorf("result %d is %q (index %d)", i, res.URL, res.Index)
		}
	}
	if stats.Total != 6 || stats.Failed != 3 || stats.AllFailed() {
		t.Errorf("stats = %+v", stats)
	}

	wantFailed := []bool{false, true, false, true, true, false}
	for i, res := range got {
		if res.Failed != wantFailed[i] {
			t.Errorf("%s failed = %v, err %v", res.URL, res.Failed, res.Err)
		}
	}
	if !tserrors.Is(got[1].Err, tserrors.ErrCodeInvalidURL) {
		t.Errorf("malformed URL err = %v", got[1].Err)
	}
	if !tserrors.Is(got[3].Err, tserrors.ErrCodeUnsupportedSource) {
		t.Errorf("gitlab err = %v", got[3].Err)
	}
	if !tserrors.Is(got[4].Err, tserrors.ErrCodePipeline) {
		t.Errorf("unreachable err = %v", got[4].Err)
	}
	var cause *tserrors.Error
	if !errors.As(errors.Unwrap(got[4].Err), &cause) || cause.Code != tserrors.ErrCodeNotFound {
		t.Errorf("unreachable cause = %v, want NOT_FOUND", errors.Unwrap(got[4].Err))
	}
	for _, res := range got {
		if res.Failed && !tserrors.AbortsArtifact(res.Err) {
			t.Errorf("%s: failure %v does not abort the artifact", res.URL, res.Err)
		}
	}
}

func TestFailedRowsAreZero(t *testing.T) {
	got, _ := collect(t, frozenRunner(source.NewRouter(stubHandler{})), []string{"ftp://nowhere", "https://github.com/a/missing"})

	zero := report.ZeroRow(artifact.Unknown("ftp://nowhere"))
	if got[0].Row != zero {
		t.Errorf("malformed row = %+v", got[0].Row)
	}
	row := got[1].Row
	if row.Category != "CODE" || row.Name != "missing" {
		t.Errorf("unreachable identity = %q %q", row.Name, row.Category)
	}
	row.Name, row.Category = zero.Name, zero.Category
	if row != zero {
		t.Errorf("unreachable row has scores: %+v", got[1].Row)
	}
}

func TestAllFailed(t *testing.T) {
	_, stats := collect(t, frozenRunner(source.NewRouter()), []string{"https://github.com/a/b", "::"})
	if !stats.AllFailed() {
		t.Errorf("stats = %+v, want all failed", stats)
	}
	if (Stats{}).AllFailed() {
		t.Error("an empty batch is not a failure")
	}
}

func TestRunStopsEmittingOnError(t *testing.T) {
	h := stubHandler{meta: map[string]func(artifact.Ref) *source.Metadata{}}
	r := frozenRunner(source.NewRouter(h))
	calls := 0
	stats, err := r.Run(context.Background(), []string{"a", "b", "c"}, func(Result) error {
		calls++
		return errors.New("disk full")
	})
	if err == nil || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want every artifact counted", stats.Total)
	}
}

// fakeGitHub serves a small public repository.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	encoded := func(s string) string {
		b, _ := json.Marshal(map[string]string{"encoding": "base64", "content": base64.StdEncoding.EncodeToString([]byte(s))})
		return string(b)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/openai/whisper", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name":"openai/whisper","stargazers_count":70000,"default_branch":"main","size":3000,"license":{"spdx_id":"MIT"}}`)
	})
	mux.HandleFunc("/repos/openai/whisper/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login":"jongwook","contributions":150,"type":"User"},{"login":"a","contributions":30,"type":"User"},{"login":"b","contributions":20,"type":"User"}]`)
	})
	mux.HandleFunc("/repos/openai/whisper/readme", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, encoded("# Whisper\n\n## Setup\n\n    pip install -U openai-whisper\n\n## Python usage\n\n```python\nimport whisper\n```\n"))
	})
	mux.HandleFunc("/repos/openai/whisper/license", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"encoding":"base64","content":"","license":{"spdx_id":"MIT","name":"MIT License"}}`)
	})
	mux.HandleFunc("/repos/openai/whisper/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tree":[{"path":"requirements.txt","type":"blob","size":40},{"path":"tests/test_audio.py","type":"blob","size":900}]}`)
	})
	mux.HandleFunc("/repos/openai/whisper/contents/requirements.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, encoded("numpy\ntorch\ntiktoken\n"))
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count":10}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScoreGitHubRepository(t *testing.T) {
	srv := fakeGitHub(t)
	router := NewRouter(Sources{Cache: cache.NewMemoryCache(), GitHubAPI: srv.URL, HubURL: srv.URL, Retries: 1})

	res := frozenRunner(router).Score(context.Background(), "https://github.com/openai/whisper")
	if res.Failed {
		t.Fatalf("failed: %v", res.Err)
	}
	if res.Row.Category != "CODE" || res.Row.Name != "whisper" {
		t.Errorf("identity = %q %q", res.Row.Name, res.Row.Category)
	}
	if res.Row.BusFactor <= 0 {
		t.Errorf("bus_factor = %v, want > 0", res.Row.BusFactor)
	}
	if res.Row.NetScore <= 0 || res.Row.NetScore > 1 {
		t.Errorf("net_score = %v, want in (0,1]", res.Row.NetScore)
	}
	if res.Row.License != 1 || res.Row.Reviewedness != 1 {
		t.Errorf("license %v reviewedness %v", res.Row.License, res.Row.Reviewedness)
	}
	if res.Row.SizeScore != (report.SizeScore{}) {
		t.Errorf("CODE size_score = %+v, want zeros", res.Row.SizeScore)
	}
}

func ndjson(t *testing.T, r *Runner, urls []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := report.NewWriter(&buf)
	if _, err := r.Run(context.Background(), urls, func(res Result) error { return w.Write(res.Row) }); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOfflineReplayIsIdentical(t *testing.T) {
	srv := fakeGitHub(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := source.NewSnapshotStore(fc, nil)
	urls := []string{"https://github.com/openai/whisper", "not a url"}

	live := frozenRunner(NewRouter(Sources{Cache: cache.NewMemoryCache(), GitHubAPI: srv.URL, Snapshots: store, Retries: 1}))
	recorded := ndjson(t, live, urls)
	srv.Close()

	offline := frozenRunner(NewRouter(Sources{Snapshots: store, Offline: true}))
	first := ndjson(t, offline, urls)
	second := ndjson(t, offline, urls)

	if !bytes.Equal(first, second) {
		t.Errorf("offline runs differ:\n%s\n%s", first, second)
	}
	if !bytes.Equal(recorded, first) {
		t.Errorf("offline replay differs from live run:\n%s\n%s", recorded, first)
	}
	if n := strings.Count(string(first), "\n"); n != len(urls) {
		t.Errorf("lines = %d", n)
	}
}

func TestOfflineMissingSnapshotFails(t *testing.T) {
	store := source.NewSnapshotStore(cache.NewMemoryCache(), nil)
	res := frozenRunner(NewRouter(Sources{Snapshots: store, Offline: true})).Score(context.Background(), "https://huggingface.co/x/y")
	if !res.Failed {
		t.Error("missing snapshot should fail the artifact")
	}
}

func TestReorderBuffer(t *testing.T) {
	var order []int
	b := newReorderBuffer(func(r Result) error {
		order = append(order, r.Index)
		return nil
	})
	for _, i := range []int{2, 0, 3, 1} {
		if err := b.add(Result{Index: i}); err != nil {
			t.Fatal(err)
		}
	}
	if fmt.Sprint(order) != "[0 1 2 3]" {
		t.Errorf("order = %v", order)
	}
}

func TestScoreInvalidRepositoryReference(t *testing.T) {
	srv := fakeGitHub(t)
	router := NewRouter(Sources{Cache: cache.NewMemoryCache(), GitHubAPI: srv.URL, Retries: 1})

	res := frozenRunner(router).Score(context.Background(), "https://github.com/-bad/repo")
	if !res.Failed {
		t.Fatal("invalid owner should fail the artifact")
	}
	if !tserrors.Is(res.Err, tserrors.ErrCodeInvalidURL) {
		t.Errorf("err = %v, want INVALID_URL", res.Err)
	}
}

func TestUnreachableCauses(t *testing.T) {
	tests := []struct {
		status source.FieldStatus
		want   tserrors.Code
	}{
		{source.StatusMissing, tserrors.ErrCodeNotFound},
		{source.StatusRateLimited, tserrors.ErrCodeRateLimited},
		{source.StatusError, tserrors.ErrCodeFetch},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			url := "https://github.com/a/b"
			h := stubHandler{meta: map[string]func(artifact.Ref) *source.Metadata{
				url: func(ref artifact.Ref) *source.Metadata {
					m := source.New(ref)
					m.Mark(source.FieldRepo, tt.status)
					return m
				},
			}}
			res := frozenRunner(source.NewRouter(h)).Score(context.Background(), url)
			if !tserrors.Is(res.Err, tserrors.ErrCodePipeline) || !tserrors.AbortsArtifact(res.Err) {
				t.Fatalf("err = %v, want PIPELINE_ERROR", res.Err)
			}
			if got := tserrors.GetCode(errors.Unwrap(res.Err)); got != tt.want {
				t.Errorf("cause code = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewRouterLogsMissingToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"", true},
		{"ghp_secret", false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)
		NewRouter(Sources{Cache: cache.NewMemoryCache(), GitHubToken: tt.token, Logger: logger})
		if got := strings.Contains(buf.String(), "unauthenticated"); got != tt.want {
			t.Errorf("token %q: logged %q", tt.token, buf.String())
		}
	}
}
