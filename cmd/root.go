package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/config"
	"github.com/ramanasai/sereni/internal/db"
	"github.com/ramanasai/sereni/internal/debrief"
	"github.com/ramanasai/sereni/internal/logging"
	"github.com/ramanasai/sereni/internal/markers"
	"github.com/ramanasai/sereni/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "sereni",
	Short:        "Mood journal with guided exercises",
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sereni/config.yaml)")

	// Add commands; other files define these vars
	rootCmd.AddCommand(tuiCmd, checkCmd, moodsCmd, scriptCmd, versionCmd)
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// app is everything a command may need, built from the config.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	dbh     *sql.DB
	ledger  *db.Ledger
	store   *store.Store
	matcher *markers.Matcher
	script  *debrief.Script
}

func (a *app) Close() {
	if a.dbh != nil {
		_ = a.dbh.Close()
	}
	_ = a.log.Sync()
}

// setup opens the ledger, seeds the state and loads the keyword catalogue
// and debrief script, honouring any overrides in cfg.
func setup(cfg config.Config) (*app, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	if a.matcher, err = loadMatcher(cfg); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Markers.Catalog != "" {
		log.Info("keyword catalogue loaded", zap.String("path", cfg.Markers.Catalog), zap.Int("keywords", a.matcher.Catalogue().Len()))
	}

	a.script = debrief.MustDefault()
	if cfg.Debrief.Script != "" {
		if a.script, err = debrief.Load(cfg.Debrief.Script); err != nil {
			a.Close()
			return nil, err
		}
		log.Info("debrief script loaded", zap.String("path", cfg.Debrief.Script))
	}

	initial := store.State{}
	if cfg.Demo {
		initial = store.Seed(time.Now())
	}

	if a.dbh, err = db.Open(); err != nil {
		a.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	a.ledger = db.NewLedger(a.dbh)
	if err := a.ledger.Backfill(initial); err != nil {
		a.Close()
		return nil, fmt.Errorf("backfill ledger: %w", err)
	}
	a.store = store.New(initial,
		store.WithRecorder(a.ledger),
		store.WithLogger(log.Named("store")))
	return a, nil
}

// loadMatcher uses the catalogue override when one is configured.
func loadMatcher(cfg config.Config) (*markers.Matcher, error) {
	if cfg.Markers.Catalog == "" {
		return markers.NewMatcher(markers.MustDefault()), nil
	}
	cat, err := markers.LoadCatalogue(cfg.Markers.Catalog)
	if err != nil {
		return nil, err
	}
	return markers.NewMatcher(cat), nil
}

// checkedInToday reports whether a check-in, confirmed or skipped, opened a
// journal entry today.
func checkedInToday(st store.State, loc *time.Location, now time.Time) bool {
	y, m, d := now.In(loc).Date()
	for _, e := range st.Journal {
		ey, em, ed := e.At.In(loc).Date()
		if ey == y && em == m && ed == d {
			return true
		}
	}
	return false
}

// reminder fires the daily check-in notification.
func reminder(a *app) {
	loc := a.cfg.Location()
	now := time.Now()
	if checkedInToday(a.store.Get(), loc, now) {
		a.log.Debug("reminder skipped, already checked in")
		return
	}
	streak := 0
	if p, err := db.LoadProgress(a.dbh, loc, now); err == nil {
		streak = p.Streak
	} else {
		a.log.Warn("reminder streak unavailable", zap.Error(err))
	}
	title, msg := notifyPrompt(streak)
	if err := notifyInfo(title, msg); err != nil {
		a.log.Warn("reminder not delivered", zap.Error(err))
		return
	}
	a.log.Info("reminder sent", zap.Int("streak", streak))
}
