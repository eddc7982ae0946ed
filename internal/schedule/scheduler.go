package schedule

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ramanasai/sereni/internal/config"
)

// NextAt computes the next occurrence of reminder time that is on a configured workday and not a holiday.
func NextAt(now time.Time, cfg config.Config) time.Time {
	loc := cfg.Location()
	now = now.In(loc)

	// parse "HH:MM"
	hour, min := 19, 0
	if t, err := time.ParseInLocation("15:04", cfg.Reminder.Time, loc); err == nil {
		hour = t.Hour()
		min = t.Minute()
	}
	workdays := map[string]bool{}
	for _, d := range cfg.Reminder.Workdays {
		if len(d) >= 3 {
			workdays[strings.ToLower(d[:3])] = true
		}
	}
	if len(workdays) == 0 {
		return time.Time{}
	}
	isWorkday := func(t time.Time) bool {
		return workdays[strings.ToLower(t.Weekday().String()[:3])]
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Reminder.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}
	isHoliday := func(t time.Time) bool {
		return holidays[t.Format("2006-01-02")]
	}

	// candidate today at hh:mm
	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// a year of holidays is the most we look through
	for i := 0; i < 366; i++ {
		if isWorkday(cand) && !isHoliday(cand) {
			return cand
		}
		cand = cand.AddDate(0, 0, 1)
	}
	return time.Time{}
}

// RunConfigured runs the reminder callback at the configured schedule until ctx is canceled.
// It returns immediately when the schedule has no future occurrence.
func RunConfigured(ctx context.Context, cfg config.Config, f func()) {
	RunOn(ctx, Wall{}, cfg, f)
}

// RunOn is RunConfigured driven by clock. f runs on whatever goroutine the
// clock delivers callbacks on.
func RunOn(ctx context.Context, clock Clock, cfg config.Config, f func()) {
	var (
		mu   sync.Mutex
		task Task
	)
	var arm func() bool
	arm = func() bool {
		next := NextAt(clock.Now(), cfg)
		if next.IsZero() {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return false
		}
		task = clock.AfterFunc(next.Sub(clock.Now()), func() {
			if ctx.Err() != nil {
				return
			}
			f()
			arm()
		})
		return true
	}
	if !arm() {
		return
	}
	<-ctx.Done()
	mu.Lock()
	task.Stop()
	mu.Unlock()
}
