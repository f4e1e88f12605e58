// Package config loads trustscore settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, command-line flags. Flags are applied by the CLI after Load.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/scorer"
)

// AppName names the XDG directories.
const AppName = "trustscore"

const (
	DefaultConcurrency   = 1
	DefaultMetricTimeout = 3 * time.Second
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultRetries       = 3
	DefaultAuxURL        = "http://127.0.0.1:8089/score"
	DefaultRedisTTL      = 24 * time.Hour
)

// Log levels accepted by LOG_LEVEL.
const (
	LogSilent = 0
	LogInfo   = 1
	LogDebug  = 2
)

// Environment variables read by ApplyEnv.
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvHubToken    = "HF_TOKEN"
	EnvAux         = "TRUSTSCORE_AUX"
	EnvAuxURL      = "TRUSTSCORE_AUX_URL"
	EnvRedisURL    = "TRUSTSCORE_REDIS_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFile     = "LOG_FILE"
)

// Duration is a time.Duration written as "3s" or "1m30s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Sources overrides the public API endpoints.
type Sources struct {
	GitHubAPI string `toml:"github_api"`
	HubURL    string `toml:"hub_url"`
}

// Aux configures the auxiliary README scorer.
type Aux struct {
	Enabled bool     `toml:"enabled"`
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// Cache selects the HTTP cache backend of a run.
type Cache struct {
	// RedisURL enables the Redis backend when set.
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Config holds every setting of a scoring run.
type Config struct {
	Workers       int                `toml:"workers"`
	Concurrency   int                `toml:"concurrency"`
	MetricTimeout Duration           `toml:"metric_timeout"`
	HTTPTimeout   Duration           `toml:"http_timeout"`
	Retries       int                `toml:"retries"`
	Policy        string             `toml:"policy"`
	Weights       map[string]float64 `toml:"weights"`
	SnapshotDir   string             `toml:"snapshot_dir"`

	Sources Sources `toml:"sources"`
	Aux     Aux     `toml:"aux"`
	Cache   Cache   `toml:"cache"`

	// Tokens come from the environment only.
	GitHubToken string `toml:"-"`
	HubToken    string `toml:"-"`

	LogLevel int    `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// Default returns the built-in configuration. Workers 0 lets the engine
// size its pool from the registry and CPU count.
func Default() *Config {
	return &Config{
		Concurrency:   DefaultConcurrency,
		MetricTimeout: Duration(DefaultMetricTimeout),
		HTTPTimeout:   Duration(DefaultHTTPTimeout),
		Retries:       DefaultRetries,
		Policy:        string(scorer.PolicyFixed),
		Aux:           Aux{URL: DefaultAuxURL, Timeout: Duration(5 * time.Second)},
		Cache:         Cache{TTL: Duration(DefaultRedisTTL)},
		LogLevel:      LogInfo,
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/trustscore/config.toml.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// SnapshotDir returns the default snapshot directory under XDG_DATA_HOME.
func SnapshotDir() string {
	return filepath.Join(xdg.DataHome, AppName, "snapshots")
}

// Load reads the config file at path on top of the defaults. An empty path
// reads the default location, which may be absent; an explicit path must
// exist. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvGitHubToken); !IsPlaceholder(v) {
		c.GitHubToken = strings.TrimSpace(v)
	}
	if v := getenv(EnvHubToken); !IsPlaceholder(v) {
		c.HubToken = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(getenv(EnvAux)); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAux, err)
		}
		c.Aux.Enabled = on
	}
	if v := strings.TrimSpace(getenv(EnvAuxURL)); v != "" {
		c.Aux.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisURL)); v != "" {
		c.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil || level < LogSilent || level > LogDebug {
			return fmt.Errorf("%s must be 0, 1 or 2, got %q", EnvLogLevel, v)
		}
		c.LogLevel = level
	}
	if v := strings.TrimSpace(getenv(EnvLogFile)); v != "" {
		c.LogFile = v
	}
	return nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative"))
	}
	if c.MetricTimeout < 0 || c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("timeouts must not be negative"))
	}
	if _, err := scorer.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	known := metrics.Default().Names()
	for name, w := range c.Weights {
		if !slices.Contains(known, name) {
			errs = append(errs, fmt.Errorf("weights: unknown metric %q", name))
		}
		if math.IsNaN(w) || w < 0 || w > 1 {
			errs = append(errs, fmt.Errorf("weights: %s = %v is outside [0,1]", name, w))
		}
	}
	if c.LogLevel < LogSilent || c.LogLevel > LogDebug {
		errs = append(errs, fmt.Errorf("log_level must be 0, 1 or 2"))
	}
	return errors.Join(errs...)
}

// ScorerOptions returns the scorer options described by c.
func (c *Config) ScorerOptions() ([]scorer.Option, error) {
	policy, err := scorer.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	opts := []scorer.Option{scorer.WithPolicy(policy)}
	if len(c.Weights) > 0 {
		opts = append(opts, scorer.WithWeights(c.Weights))
	}
	return opts, nil
}

var placeholders = []string{"your_token_here", "<token>", "changeme", "xxx", "none", "null"}

// IsPlaceholder reports whether a token value is empty or an obvious
// template value copied from documentation.
func IsPlaceholder(token string) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	return t == "" || slices.Contains(placeholders, t)
}
