// Package cli implements the trustscore command-line interface.
//
// The score command reads artifact URLs, one per line, and writes one NDJSON
// row per URL to stdout. Logs and status lines go to stderr so the NDJSON
// stream stays clean.
//
// # Commands
//
//   - score: score artifacts from a file or stdin
//   - metrics: list the registered metrics with weights and applicability
//   - snapshot: show or clear the metadata snapshot directory
//   - completion: generate shell completions
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/trustscore/config.toml (or --config),
// then the environment (GITHUB_TOKEN, HF_TOKEN, TRUSTSCORE_AUX, LOG_LEVEL,
// LOG_FILE, ...), then flags.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustscore/pkg/buildinfo"
	"github.com/matzehuels/trustscore/pkg/config"
)

const appName = "trustscore"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	// Getenv reads the environment; tests replace it.
	Getenv func(string) string

	configPath string
	verbose    bool
	cfg        *config.Config
	logFile    io.Closer
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Getenv: os.Getenv,
	}
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Trustscore rates the trustworthiness of ML models, datasets and code repositories",
		Long: `Trustscore fetches public metadata for each artifact URL (model cards, READMEs,
contributor statistics, licenses, dependency manifests) and computes a set of
weighted trust metrics, emitting one NDJSON record per artifact.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.metricsCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies its logging settings.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(c.Getenv); err != nil {
		return err
	}
	c.cfg = cfg

	level, enabled := logLevel(cfg.LogLevel, c.verbose)
	c.Logger.SetLevel(level)
	switch {
	case !enabled:
		c.Logger.SetOutput(io.Discard)
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.logFile = f
		c.Logger.SetOutput(f)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// settings returns the loaded configuration, or the defaults before setup.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}
