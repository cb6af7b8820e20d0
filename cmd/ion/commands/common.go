package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/ion/internal/config"
	"git.home.luguber.info/inful/ion/internal/logfields"
	"git.home.luguber.info/inful/ion/internal/metrics"
	"git.home.luguber.info/inful/ion/internal/version"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns a Global writing to the process streams.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI definition & global flags.
type CLI struct {
	Dir     string           `short:"C" name:"dir" help:"Site root holding the _ion folder" default:"." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Spark  SparkCmd  `cmd:"" help:"Create an empty page in the given folder"`
	Charge ChargeCmd `cmd:"" help:"Generate HTML/JSON files for every folder under path, recursively"`
	Watch  WatchCmd  `cmd:"" help:"Generate once, then regenerate whenever files change"`
	Init   InitCmd   `cmd:"" help:"Create the _ion folder with a default configuration and theme"`
	Help   HelpCmd   `cmd:"" help:"Show this help message"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// NewParser builds the kong parser for cli.
func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("ion"),
		kong.Description("A minimal static site generator."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	}
	return kong.New(cli, append(opts, options...)...)
}

// loadSite loads the site configuration and reconfigures logging from it.
func loadSite(g *Global, root *CLI) (*config.Site, error) {
	site, err := config.Load(root.Dir)
	if err != nil {
		return nil, err
	}
	setupLogging(g, site, root.Verbose)
	g.Logger.Debug("Loaded site",
		logfields.Path(site.Root()),
		slog.String("config", site.ConfigPath()),
		slog.Any("blocked_dirs", site.BlockedDirs()))
	return site, nil
}

func setupLogging(g *Global, site *config.Site, verbose bool) {
	level := site.LogLevel().Slog()
	if verbose {
		level = slog.LevelDebug
	}
	out := g.Stderr
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(out, opts)
	if site.LogFormat() == config.LogFormatJSON {
		h = slog.NewJSONHandler(out, opts)
	}
	g.Logger = slog.New(h)
	slog.SetDefault(g.Logger)
}

// newRecorder returns a Prometheus backed recorder when the site writes a
// metrics textfile, else a no-op recorder and a nil registry.
func newRecorder(site *config.Site) (metrics.Recorder, *prom.Registry) {
	if site.MetricsFile() == "" {
		return metrics.NoopRecorder{}, nil
	}
	reg := prom.NewRegistry()
	return metrics.NewPrometheusRecorder(reg), reg
}

func writeMetrics(g *Global, site *config.Site, reg *prom.Registry) {
	if reg == nil {
		return
	}
	if err := metrics.WriteTextfile(site.MetricsFile(), reg); err != nil {
		g.Logger.Warn("Failed to write metrics", logfields.Path(site.MetricsFile()), logfields.Error(err))
	}
}

func pagePrinter(w io.Writer) func(string) {
	return func(path string) {
		_, _ = fmt.Fprintf(w, "'%s' generated.\n", path)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
