package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/db"
	"github.com/dwes123/pitch-arsenal-go/internal/logging"
	"github.com/dwes123/pitch-arsenal-go/internal/notification"
	"github.com/dwes123/pitch-arsenal-go/internal/pipeline"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
	"github.com/dwes123/pitch-arsenal-go/internal/store"
)

// skipConfig marks commands that run without loading pitchdata.yaml.
const skipConfig = "skip-config"

// app holds the global flags and the config loaded from them.
type app struct {
	configPath string
	season     int
	segment    string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "pitchdata",
		Short:         "Fetch, build and validate pitch arsenal data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if c.Annotations[skipConfig] == "true" {
				return nil
			}
			return a.load(c)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "config file (default $PITCH_CONFIG or ./pitchdata.yaml)")
	f.IntVarP(&a.season, "season", "s", 0, "target season (overrides config)")
	f.StringVar(&a.segment, "segment", "", "season segment (overrides config)")
	f.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	cmd.AddCommand(
		fetchPitchTypesCmd(a),
		fetchSpinCmd(a),
		fetchAnalyticsCmd(a),
		buildCmd(a),
		refreshCmd(a),
		validateCmd(a),
		hashTokenCmd(),
	)
	return cmd
}

func (a *app) load(c *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if c.Flags().Changed("season") {
		cfg.SetSeason(a.season)
	}
	if a.segment != "" {
		cfg.Segment = a.segment
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(cfg.LogLevel)
	if cfg.PitchOverrides != "" {
		if err := pitchtype.LoadOverrides(cfg.PitchOverrides); err != nil {
			return fmt.Errorf("pitch overrides: %w", err)
		}
	}
	a.cfg = cfg
	return nil
}

// runner builds a pipeline runner. The database mirror is attached when
// DATABASE_URL is set; the returned cleanup closes it.
func (a *app) runner(ctx context.Context, notify bool) (*pipeline.Runner, func(), error) {
	var pool *pgxpool.Pool
	cleanup := func() {}
	if a.cfg.DatabaseURL != "" {
		p, err := db.InitDB(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx, p); err != nil {
			p.Close()
			return nil, nil, err
		}
		pool, cleanup = p, p.Close
	}

	var n *notification.Notifier
	if notify {
		n = notification.New(a.cfg.Notify)
	}
	return pipeline.NewRunner(a.cfg, pool, n), cleanup, nil
}
