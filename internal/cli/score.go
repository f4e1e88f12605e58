package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/config"
	"github.com/matzehuels/trustscore/pkg/engine"
	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/observability"
	"github.com/matzehuels/trustscore/pkg/pipeline"
	"github.com/matzehuels/trustscore/pkg/report"
	"github.com/matzehuels/trustscore/pkg/scorer"
	"github.com/matzehuels/trustscore/pkg/source"
)

// scoreOptions holds the score command's flags.
type scoreOptions struct {
	concurrency  int
	workers      int
	timeout      time.Duration
	policy       string
	aux          bool
	noCache      bool
	offline      bool
	snapshotDir  string
	fixedLatency bool
	summaryMD    string
	metricsFile  string
}

func (c *CLI) scoreCommand() *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score [URL_FILE]",
		Short: "Score artifacts listed one URL per line",
		Long: `Score every artifact URL in URL_FILE (or stdin when omitted or "-").

Blank lines and lines starting with # are ignored. One NDJSON row is written
to stdout per URL, in input order. Artifacts that cannot be fetched produce a
zeroed row; the command fails only when every artifact failed.`,
		Example: `  trustscore score urls.txt
  trustscore score --concurrency 4 --summary-md summary.md urls.txt
  trustscore score --snapshot-dir ./snap urls.txt && trustscore score --offline --snapshot-dir ./snap --fixed-latency urls.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			flags := cmd.Flags()
			if flags.Changed("concurrency") {
				cfg.Concurrency = opts.concurrency
			}
			if flags.Changed("workers") {
				cfg.Workers = opts.workers
			}
			if flags.Changed("timeout") {
				cfg.MetricTimeout = config.Duration(opts.timeout)
			}
			if flags.Changed("policy") {
				cfg.Policy = opts.policy
			}
			if flags.Changed("aux") {
				cfg.Aux.Enabled = opts.aux
			}
			if opts.snapshotDir == "" {
				opts.snapshotDir = cfg.SnapshotDir
			}
			if opts.snapshotDir == "" && opts.offline {
				opts.snapshotDir = config.SnapshotDir()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			urls, err := readURLFile(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.runScore(cmd.Context(), cfg, opts, urls, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.concurrency, "concurrency", "c", config.DefaultConcurrency, "artifacts scored in parallel")
	f.IntVar(&opts.workers, "workers", 0, "metric workers per artifact (0 = min(metrics, CPUs))")
	f.DurationVar(&opts.timeout, "timeout", engine.DefaultTimeout, "per-metric timeout")
	f.StringVar(&opts.policy, "policy", string(scorer.PolicyFixed), "inapplicable-metric weight policy: fixed or redistribute")
	f.BoolVar(&opts.aux, "aux", false, "enable the auxiliary README summary scorer")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP response cache")
	f.BoolVar(&opts.offline, "offline", false, "score from metadata snapshots without network access")
	f.StringVar(&opts.snapshotDir, "snapshot-dir", "", "record metadata snapshots to (or, with --offline, replay from) this directory")
	f.BoolVar(&opts.fixedLatency, "fixed-latency", false, "report every latency as 0 for reproducible output")
	f.StringVar(&opts.summaryMD, "summary-md", "", "write a markdown batch summary to this file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus text metrics to this file")

	return cmd
}

func readURLFile(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return artifact.ReadURLs(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()
	return artifact.ReadURLs(f)
}

func (c *CLI) runScore(ctx context.Context, cfg *config.Config, opts scoreOptions, urls []string, stdout, stderr io.Writer) error {
	runID := uuid.NewString()
	logger := loggerFromContext(ctx).With("run", runID[:8])

	var rec *observability.Recorder
	if opts.metricsFile != "" {
		rec = observability.NewRecorder()
		observability.SetScoringHooks(rec)
		observability.SetCacheHooks(rec)
		observability.SetHTTPHooks(rec)
		defer observability.Reset()
	}

	httpCache, keyer, err := openHTTPCache(ctx, cfg, opts, runID, logger)
	if err != nil {
		return err
	}
	defer httpCache.Close()

	sources := pipeline.Sources{
		Cache:       httpCache,
		Keyer:       keyer,
		GitHubToken: cfg.GitHubToken,
		HubToken:    cfg.HubToken,
		GitHubAPI:   cfg.Sources.GitHubAPI,
		HubURL:      cfg.Sources.HubURL,
		HTTPTimeout: time.Duration(cfg.HTTPTimeout),
		Retries:     cfg.Retries,
		Offline:     opts.offline,
		Logger:      logger,
	}
	if cfg.Aux.Enabled && !opts.offline {
		sources.Aux = source.NewHTTPAux(cfg.Aux.URL, time.Duration(cfg.Aux.Timeout))
	}
	if opts.snapshotDir != "" {
		fc, err := cache.NewFileCache(opts.snapshotDir)
		if err != nil {
			return fmt.Errorf("open snapshot dir: %w", err)
		}
		sources.Snapshots = source.NewSnapshotStore(fc, nil)
		logger.Debug("snapshots", "dir", fc.Dir(), "offline", opts.offline)
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Workers > 0 {
		engineOpts = append(engineOpts, engine.WithWorkers(cfg.Workers))
	}
	if cfg.MetricTimeout > 0 {
		engineOpts = append(engineOpts, engine.WithTimeout(time.Duration(cfg.MetricTimeout)))
	}
	scorerOpts, err := cfg.ScorerOptions()
	if err != nil {
		return err
	}
	if opts.fixedLatency {
		clock := engine.FrozenClock(time.Unix(0, 0))
		engineOpts = append(engineOpts, engine.WithClock(clock))
		scorerOpts = append(scorerOpts, scorer.WithClock(clock))
	}
	sc, err := scorer.New(scorerOpts...)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(pipeline.NewRouter(sources), engine.New(metrics.Default(), engineOpts...), sc, logger)
	runner.Concurrency = cfg.Concurrency

	logger.Info("scoring", "artifacts", len(urls), "concurrency", runner.Concurrency, "policy", sc.Policy())
	prog := newProgress(logger)

	out := report.NewWriter(stdout)
	entries := make([]report.Entry, 0, len(urls))
	stats, err := runner.Run(ctx, urls, func(res pipeline.Result) error {
		entries = append(entries, summaryEntry(res))
		return out.Write(res.Row)
	})
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scored %d artifacts, %d failed", stats.Total, stats.Failed))

	if opts.summaryMD != "" {
		if err := writeFile(opts.summaryMD, func(w io.Writer) error { return report.WriteSummary(w, entries) }); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		printDetail(stderr, "Summary: %s", opts.summaryMD)
	}
	if rec != nil {
		if err := writeFile(opts.metricsFile, rec.WriteText); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		printDetail(stderr, "Metrics: %s", opts.metricsFile)
	}

	if stats.AllFailed() {
		printError(stderr, "All %d artifacts failed", stats.Total)
		return tserrors.New(tserrors.ErrCodePipeline, "all %d artifacts failed", stats.Total)
	}
	if stats.Failed > 0 {
		printWarning(stderr, "%d of %d artifacts failed", stats.Failed, stats.Total)
	}
	return nil
}

// openHTTPCache returns the run's HTTP cache. A Redis backend is shared
// between runs, so its keys are scoped by run ID.
func openHTTPCache(ctx context.Context, cfg *config.Config, opts scoreOptions, runID string, logger *log.Logger) (cache.Cache, cache.Keyer, error) {
	switch {
	case opts.noCache || opts.offline:
		return cache.NewNullCache(), nil, nil
	case cfg.Cache.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, appName, time.Duration(cfg.Cache.TTL))
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using redis cache", "run_id", runID)
		return rc, cache.NewScopedKeyer(nil, "run:"+runID+":"), nil
	default:
		return cache.NewMemoryCache(), nil, nil
	}
}

func summaryEntry(res pipeline.Result) report.Entry {
	e := report.Entry{URL: res.URL, Row: res.Row, Failed: res.Failed}
	switch {
	case res.Err != nil:
		e.Reason = tserrors.UserMessage(res.Err)
	case len(res.Degraded) > 0:
		e.Reason = fmt.Sprintf("degraded: %v", res.Degraded)
	}
	return e
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
