package agg

import (
	"math"
	"slices"
	"time"

	"github.com/huangsam/newslog/schema"
)

// dayTotals accumulates request counts for one calendar day.
type dayTotals struct {
	total  int
	errors int
}

// DailyErrorStats groups entries by calendar day in loc and counts total and
// error requests. Entries with a zero timestamp are skipped. Days come back
// in ascending order.
func DailyErrorStats(entries []schema.LogEntry, c *StatusClassifier, loc *time.Location) []schema.DailyErrorStat {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[time.Time]*dayTotals)
	for _, e := range entries {
		if e.Time.IsZero() {
			continue
		}
		day := truncateToDay(e.Time, loc)
		t, ok := byDay[day]
		if !ok {
			t = &dayTotals{}
			byDay[day] = t
		}
		t.total++
		if c.IsError(e.Status) {
			t.errors++
		}
	}

	stats := make([]schema.DailyErrorStat, 0, len(byDay))
	for day, t := range byDay {
		stats = append(stats, schema.DailyErrorStat{
			Day:           day,
			TotalRequests: t.total,
			ErrorRequests: t.errors,
			ErrorRate:     ErrorRate(t.errors, t.total),
		})
	}
	slices.SortFunc(stats, func(a, b schema.DailyErrorStat) int {
		return a.Day.Compare(b.Day)
	})
	return stats
}

// ErrorRate returns errors/total as a percentage rounded to one decimal place.
func ErrorRate(errors, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(errors) * 100 / float64(total)
	return math.Round(pct*10) / 10
}

// truncateToDay drops the time of day, keeping the calendar date in loc.
func truncateToDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
