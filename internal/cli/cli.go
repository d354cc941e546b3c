package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pfrederiksen/vax-slots/internal/config"
	"github.com/pfrederiksen/vax-slots/internal/logger"
	"github.com/pfrederiksen/vax-slots/internal/notifier"
	"github.com/pfrederiksen/vax-slots/internal/scraper"
	"github.com/pfrederiksen/vax-slots/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

// exit is replaced in tests
var exit = os.Exit

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vax-slots",
		Short: "Watch for newly bookable vaccination times",
		Long: `A CLI tool that polls the list of bookable vaccination times and reports
locations that are new or whose number of available times changed since the
previous poll. The best match in the watched regions is opened in the browser.`,
		Example: `  # Watch the default regions and open the best new slot
  vax-slots

  # Watch other municipalities without opening anything
  vax-slots --regions Borås,Lerum --action none

  # Check once and print JSON
  vax-slots --once --format json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runWatch,
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default $HOME/.vax-slots.yaml)")
	flags.String("url", scraper.BookableTimesURL, "Page listing bookable times")
	flags.StringSliceP("regions", "r", nil, "Regions to show and act on (default Ale,Göteborg,Kungälv,Mölndal)")
	flags.Duration("min-interval", config.DefaultMinInterval, "Shortest pause between polls")
	flags.Duration("max-interval", config.DefaultMaxInterval, "Longest pause between polls")
	flags.Duration("timeout", scraper.Timeout, "HTTP timeout per fetch")
	flags.String("user-agent", scraper.UserAgent, "User-Agent header sent with each fetch")
	flags.String("action", notifier.ActionBrowser, "Action for the best new location: browser, twitter, telegram, dry-run or none")
	flags.String("format", string(FormatText), "Output format: text or json")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Bool("debug", false, "Enable debug logging (same as --log-level debug)")
	flags.Bool("once", false, "Poll once and exit (exit code 2 when changes are shown)")
	flags.Bool("no-color", false, "Disable colored output")

	return cmd
}

// loadConfig resolves the configuration for cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	return config.Load(v)
}

// runWatch is the main command logic
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	setupLogger(cfg)

	sc := scraper.New(cfg.ScraperOptions())

	var hook notifier.Notifier
	if !cfg.Once {
		// The first cycle never fires the hook, so --once has no use for one
		hook, err = notifier.New(cfg.Action)
		if err != nil {
			return fmt.Errorf("initializing %s action: %w", cfg.Action, err)
		}
	}

	w := watch.New(sc, watch.Options{
		Allow:       cfg.AllowList(),
		Notifier:    hook,
		MinInterval: cfg.MinInterval,
		MaxInterval: cfg.MaxInterval,
	})

	format := OutputFormat(cfg.Format)
	out := cmd.OutOrStdout()
	styles := NewStyles(useColor(cfg, out))

	logger.Info("Watching bookable times", logger.Fields{
		"url":     sc.URL(),
		"regions": cfg.Regions,
		"action":  cfg.Action,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Once {
		cycle, err := w.RunCycle(ctx)
		if err != nil {
			return err
		}
		if err := WriteOutput(out, NewOutputResult(cycle), format, styles); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if len(cycle.Ranking.Locations) > 0 {
			exit(ExitChanges)
		}
		return nil
	}

	return w.Run(ctx, func(cycle *watch.Cycle, err error) error {
		if cycle != nil {
			if werr := WriteOutput(out, NewOutputResult(cycle), format, styles); werr != nil {
				return fmt.Errorf("writing output: %w", werr)
			}
		}
		if err != nil {
			logger.Error("Poll cycle failed", logger.Fields{"url": sc.URL()}, err)
		}

		logger.Debug("Metrics", logger.GetMetricsSnapshot().Fields())
		return nil
	})
}

func setupLogger(cfg *config.Config) {
	logger.SetDefault(logger.NewWithFormat(cfg.Level(), os.Stderr, logger.Format(cfg.LogFormat)))
}

// useColor reports whether text output should be styled
func useColor(cfg *config.Config, out io.Writer) bool {
	if cfg.NoColor || cfg.Format != string(FormatText) {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
