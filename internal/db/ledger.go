package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ramanasai/sereni/internal/store"
)

// Ledger appends activity rows. It implements store.Recorder.
type Ledger struct {
	db *sql.DB
}

func NewLedger(dbh *sql.DB) *Ledger {
	return &Ledger{db: dbh}
}

func (l *Ledger) DB() *sql.DB { return l.db }

// Record inserts one activity.
func (l *Ledger) Record(a store.Activity) error {
	_, err := l.db.Exec(
		`INSERT INTO activity (ts, kind, ref, label, color, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		a.At.UTC().Format(tsLayout), string(a.Kind), a.Ref, a.Label, a.Color, a.Detail,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", a.Kind, err)
	}
	return nil
}

// Backfill records the activity implied by an existing state, such as the
// demo data, in one transaction.
func (l *Ledger) Backfill(st store.State) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO activity (ts, kind, ref, label, color, detail) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	insert := func(a store.Activity) error {
		_, err := stmt.Exec(a.At.UTC().Format(tsLayout), string(a.Kind), a.Ref, a.Label, a.Color, a.Detail)
		return err
	}
	for _, e := range st.Journal {
		if e.Mood != "" {
			if err := insert(store.Activity{Kind: store.KindCheckIn, At: e.At, Ref: e.ID, Label: e.Mood, Color: e.MoodColor, Detail: strings.Join(e.Tags, ",")}); err != nil {
				return err
			}
		}
		if e.Content != "" {
			if err := insert(store.Activity{Kind: store.KindJournal, At: e.At, Ref: e.ID}); err != nil {
				return err
			}
		}
		if e.CompletedExercise != nil {
			if err := insert(store.Activity{Kind: store.KindExercise, At: e.At, Ref: e.CompletedExercise.ID, Label: e.CompletedExercise.Title}); err != nil {
				return err
			}
		}
	}
	for _, ex := range st.Exercises {
		if err := insert(store.Activity{Kind: store.KindExercise, At: ex.At, Ref: ex.ID, Label: ex.Title}); err != nil {
			return err
		}
	}
	return tx.Commit()
}
