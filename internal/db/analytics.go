package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DayActivity reports whether anything was written on a day.
type DayActivity struct {
	Date   time.Time
	Count  int
	Active bool
}

// MoodPoint is one check-in on the mood timeline.
type MoodPoint struct {
	At    time.Time
	Label string
	Color string
}

// TagUsage counts how often a context tag was attached to a check-in.
type TagUsage struct {
	Tag      string
	Count    int
	LastUsed time.Time
}

// Progress is everything the progression screen shows.
type Progress struct {
	Entries   int
	Exercises int
	CheckIns  int
	Markers   int
	Debriefs  int
	Week      []DayActivity // oldest first, ending today
	Recent    []MoodPoint   // up to five, oldest first
	Streak    int           // consecutive days with a journal entry or check-in
	Tags      []TagUsage
}

// LoadProgress computes the progression figures as of now.
func LoadProgress(dbh *sql.DB, loc *time.Location, now time.Time) (Progress, error) {
	var p Progress
	now = now.In(loc)

	rows, err := dbh.Query(`SELECT kind, COUNT(*) FROM activity GROUP BY kind`)
	if err != nil {
		return p, fmt.Errorf("failed to query totals: %w", err)
	}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			rows.Close()
			return p, err
		}
		switch kind {
		case "journal":
			p.Entries = n
		case "exercise":
			p.Exercises = n
		case "checkin":
			p.CheckIns = n
		case "marker":
			p.Markers = n
		case "debrief":
			p.Debriefs = n
		}
	}
	rows.Close()

	days, err := activeDays(dbh, loc)
	if err != nil {
		return p, err
	}
	today := startOfDay(now)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		n := days[d.Format("2006-01-02")]
		p.Week = append(p.Week, DayActivity{Date: d, Count: n, Active: n > 0})
	}
	p.Streak = streak(days, today)

	if p.Recent, err = recentMoods(dbh, loc, 5); err != nil {
		return p, err
	}
	if p.Tags, err = LoadTagUsage(dbh, loc); err != nil {
		return p, err
	}
	return p, nil
}

// activeDays counts journal and check-in activity per local calendar day.
func activeDays(dbh *sql.DB, loc *time.Location) (map[string]int, error) {
	rows, err := dbh.Query(`SELECT ts FROM activity WHERE kind IN ('journal', 'checkin')`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	days := map[string]int{}
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			continue
		}
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			continue
		}
		days[t.In(loc).Format("2006-01-02")]++
	}
	return days, rows.Err()
}

// streak counts consecutive active days ending today, or ending yesterday
// when nothing has been written yet today.
func streak(days map[string]int, today time.Time) int {
	d := today
	if days[d.Format("2006-01-02")] == 0 {
		d = d.AddDate(0, 0, -1)
	}
	n := 0
	for days[d.Format("2006-01-02")] > 0 {
		n++
		d = d.AddDate(0, 0, -1)
	}
	return n
}

func recentMoods(dbh *sql.DB, loc *time.Location, limit int) ([]MoodPoint, error) {
	rows, err := dbh.Query(
		`SELECT ts, label, color FROM activity WHERE kind = 'checkin' ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moods: %w", err)
	}
	defer rows.Close()

	var out []MoodPoint
	for rows.Next() {
		var ts string
		var m MoodPoint
		if err := rows.Scan(&ts, &m.Label, &m.Color); err != nil {
			continue
		}
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			continue
		}
		m.At = t.In(loc)
		out = append(out, m)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

// LoadTagUsage aggregates the context tags attached to check-ins, most used
// first.
func LoadTagUsage(dbh *sql.DB, loc *time.Location) ([]TagUsage, error) {
	rows, err := dbh.Query(`SELECT ts, detail FROM activity WHERE kind = 'checkin' AND detail != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	byTag := map[string]*TagUsage{}
	for rows.Next() {
		var ts, detail string
		if err := rows.Scan(&ts, &detail); err != nil {
			continue
		}
		t, _ := time.Parse(tsLayout, ts)
		for _, tag := range strings.Split(detail, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			u, ok := byTag[tag]
			if !ok {
				u = &TagUsage{Tag: tag}
				byTag[tag] = u
			}
			u.Count++
			if t.After(u.LastUsed) {
				u.LastUsed = t.In(loc)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]TagUsage, 0, len(byTag))
	for _, u := range byTag {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
