package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/buildinfo"
	"github.com/matzehuels/lamina/pkg/cache"
	lerrors "github.com/matzehuels/lamina/pkg/errors"
	"github.com/matzehuels/lamina/pkg/observability"
	"github.com/matzehuels/lamina/pkg/observability/prom"
	"github.com/matzehuels/lamina/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and metrics.
	appName = "lamina"

	// metricsJob is the Pushgateway job name.
	metricsJob = appName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	noCache    bool
	redisAddr  string
	badgerDir  string
	metricsURL string

	recorder *prom.Recorder
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lamina computes with laminations on triangulated surfaces",
		Long: `Lamina works with integral laminations on ideally triangulated surfaces.
It shortens curves and arcs to canonical form, splits laminations into
components, applies and classifies mapping classes, and computes
intersection numbers.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.preRun,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.pushMetrics(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")
	flags.StringVar(&c.redisAddr, "redis", "", "use the Redis cache at host:port")
	flags.StringVar(&c.badgerDir, "badger", "", "use a Badger cache in this directory")
	flags.StringVar(&c.metricsURL, "metrics", "", "push metrics to this Pushgateway URL after the run")
	root.MarkFlagsMutuallyExclusive("no-cache", "redis", "badger")

	// Register all subcommands
	root.AddCommand(c.shortenCommand())
	root.AddCommand(c.componentsCommand())
	root.AddCommand(c.twistCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.intersectCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// preRun applies the global flags before any subcommand runs.
func (c *CLI) preRun(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	if c.redisAddr != "" {
		if err := lerrors.ValidateRedisAddr(c.redisAddr); err != nil {
			return err
		}
	}
	if c.metricsURL != "" {
		c.recorder = prom.New()
		c.recorder.Register()
	}
	return nil
}

// pushMetrics sends the recorded metrics when --metrics is set.
func (c *CLI) pushMetrics(ctx context.Context) error {
	if c.recorder == nil {
		return nil
	}
	defer observability.Reset()
	if err := c.recorder.Push(ctx, c.metricsURL, metricsJob); err != nil {
		c.Logger.Warn("metrics push failed", "url", c.metricsURL, "err", err)
		return nil
	}
	c.Logger.Debug("pushed metrics", "url", c.metricsURL)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Without --verbose the
// runner only reports warnings, leaving stderr to the spinner.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	logger := c.Logger.WithPrefix("pipeline")
	if !c.verbose {
		logger.SetLevel(log.WarnLevel)
	}
	return pipeline.NewRunner(cc, nil, logger), nil
}

// newCache picks the cache backend from the global flags. The file cache
// is the default; if its directory cannot be resolved caching is disabled.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.NewNullCache(), nil
	case c.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, c.redisAddr)
		if err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "connect to redis at %s", c.redisAddr)
		}
		return rc, nil
	case c.badgerDir != "":
		return cache.NewBadgerCache(c.badgerDir)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// surfaceOptions loads the surface file argument into pipeline options.
func (c *CLI) surfaceOptions(path string, refresh bool) (pipeline.Options, error) {
	if err := lerrors.ValidatePath(path); err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		SurfacePath: path,
		Refresh:     refresh,
		Logger:      c.Logger,
	}
	if _, err := opts.LoadSurface(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// withSpinner runs fn behind a spinner. Verbose runs skip the spinner so it
// does not interleave with log lines.
func (c *CLI) withSpinner(ctx context.Context, message string, fn func() error) error {
	prog := newProgress(loggerFromContext(ctx))
	if c.verbose {
		err := fn()
		prog.done(message)
		return err
	}
	s := newSpinnerWithContext(ctx, message)
	s.Start()
	err := fn()
	s.Stop()
	prog.done(message)
	return err
}
