package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramanasai/sereni/internal/markers"
	"github.com/ramanasai/sereni/internal/mood"
	"github.com/ramanasai/sereni/internal/notify"
	"github.com/ramanasai/sereni/internal/questionnaire"
	"github.com/ramanasai/sereni/internal/schedule"
	"github.com/ramanasai/sereni/internal/ui"
)

var (
	notifyPrompt = notify.FormatDailyPrompt
	notifyInfo   = notify.Info
)

// tuiCmd launches the Bubble Tea TUI.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open TUI",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := setup(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// leaving the TUI ends the background jobs
		defer cancel()
		return ui.Run(ctx, ui.Deps{
			Config:    cfg,
			Log:       a.log.Named("ui"),
			Store:     a.store,
			Ledger:    a.ledger,
			Moods:     mood.MustCatalogue(),
			Matcher:   a.matcher,
			Script:    a.script,
			Questions: questionnaire.Default(),
			Notifier:  notify.Desktop{Alert: true},
		})
	})

	if cfg.Reminder.Enabled && os.Getenv("SERENI_NO_REMINDER") != "1" {
		g.Go(func() error {
			schedule.RunConfigured(ctx, cfg, func() { reminder(a) })
			return nil
		})
	}

	if cfg.Markers.Watch && cfg.Markers.Catalog != "" {
		r := &markers.Reloader{
			Path:      cfg.Markers.Catalog,
			Matcher:   a.matcher,
			Log:       a.log.Named("catalogue"),
			Scheduler: schedule.Wall{},
		}
		g.Go(func() error {
			if err := r.Run(ctx); err != nil {
				// the TUI keeps the catalogue it started with
				a.log.Warn("catalogue watch stopped", zap.Error(err))
			}
			return nil
		})
	}

	return g.Wait()
}
