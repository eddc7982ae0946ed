package store

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DayGroup is the journal entries written on one calendar day.
type DayGroup struct {
	Day     time.Time
	Entries []JournalEntry
}

// GroupByDay groups entries by local calendar day, oldest day first and
// oldest entry first within a day.
func GroupByDay(entries []JournalEntry) []DayGroup {
	sorted := append([]JournalEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	var groups []DayGroup
	for _, e := range sorted {
		day := truncateDay(e.At)
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, DayGroup{Day: day, Entries: []JournalEntry{e}})
	}
	return groups
}

var (
	weekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	months   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// DayHeading names day relative to now: "Aujourd'hui", "Hier", or a date
// such as "lundi 3 mars".
func DayHeading(day, now time.Time) string {
	diff := int(math.Round(truncateDay(now).Sub(truncateDay(day)).Hours() / 24))
	switch diff {
	case 0:
		return "Aujourd'hui"
	case 1:
		return "Hier"
	}
	return FrenchDate(day)
}

// FrenchDate formats t as "lundi 3 mars".
func FrenchDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s", weekdays[t.Weekday()], t.Day(), months[t.Month()-1])
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
