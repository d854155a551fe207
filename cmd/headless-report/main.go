package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/Sentry-Sense/internal/config"
	"github.com/Garsondee/Sentry-Sense/internal/observability"
	"github.com/Garsondee/Sentry-Sense/internal/report"
	"github.com/Garsondee/Sentry-Sense/internal/sim"
)

type options struct {
	configPath string
	runs       int
	ticks      int
	seedBase   int64
	seedStep   int64
	dbPath     string
	verbose    bool
	scenario   string
}

type app struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{}

	cmd := &cobra.Command{
		Use:          "headless-report",
		Short:        "Run seeded headless sentry simulations and summarise them.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before any command, setting up config and logging.
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.Sim.Verbose = true
			}
			a.cfg = cfg
			a.log = observability.NewLogger(cfg.Logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = a.log.Sync() }()
			return runBatch(cmd.OutOrStdout(), a, opts)
		},
	}

	f := cmd.Flags()
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "scenario config file (defaults plus SENTRY_ env when empty)")
	f.IntVar(&opts.runs, "runs", 5, "number of headless simulation runs")
	f.IntVar(&opts.ticks, "ticks", 0, "ticks per run (0 uses sim.ticks from the config)")
	f.Int64Var(&opts.seedBase, "seed-base", 42, "base RNG seed for run 1")
	f.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	f.StringVar(&opts.dbPath, "db", "", "sqlite file to store runs in (overrides store.path)")
	f.BoolVar(&opts.verbose, "verbose", false, "record per-tick position and speed entries")
	f.StringVar(&opts.scenario, "scenario", "", "scenario name stored with each run (defaults to the config file name)")
	return cmd
}

func runBatch(w io.Writer, a *app, o *options) error {
	if o.runs <= 0 {
		return errors.New("--runs must be > 0")
	}
	if o.ticks < 0 {
		return errors.New("--ticks must not be negative")
	}
	ticks := o.ticks
	if ticks == 0 {
		ticks = a.cfg.Sim.Ticks
	}
	if ticks <= 0 {
		return errors.New("ticks per run must be > 0")
	}
	scenario := o.scenario
	if scenario == "" {
		scenario = scenarioName(o.configPath)
	}

	dbPath := o.dbPath
	if dbPath == "" {
		dbPath = a.cfg.Store.Path
	}
	var store *report.Store
	if dbPath != "" {
		st, err := report.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		store = st
	}

	report.WriteHeader(w, scenario, o.runs, ticks, o.seedBase, o.seedStep)

	all := make([]report.RunStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		rs, events, err := runOne(a, scenario, i+1, seed, ticks)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		all = append(all, rs)
		report.WriteRun(w, rs)

		if store != nil {
			if err := store.SaveRun(rs, events); err != nil {
				return fmt.Errorf("save run %d: %w", i+1, err)
			}
		}
		a.log.Info("run complete",
			zap.Int("run", i+1),
			zap.Int64("seed", seed),
			zap.String("id", rs.ID),
			zap.Int("violations", rs.Violations))
	}

	report.WriteAggregate(w, all)
	return nil
}

func runOne(a *app, scenario string, runIndex int, seed int64, ticks int) (report.RunStats, []sim.SimLogEntry, error) {
	opts, err := sim.FromConfig(a.cfg, seed)
	if err != nil {
		return report.RunStats{}, nil, err
	}
	opts = append(opts, sim.WithLogger(a.log), sim.WithLabel(fmt.Sprintf("S%d", runIndex)))
	s, err := sim.NewSim(opts...)
	if err != nil {
		return report.RunStats{}, nil, err
	}
	s.RunTicks(ticks)
	return report.Collect(s, scenario, runIndex), s.SimLog.Entries(), nil
}

func scenarioName(configPath string) string {
	if configPath == "" {
		return "default"
	}
	base := filepath.Base(configPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
