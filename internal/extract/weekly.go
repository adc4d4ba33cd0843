package extract

import (
	"time"

	"edupulse/internal/model"
)

// startOfWeek truncates to the Monday 00:00 UTC beginning the ISO week.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	back := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -back)
}

func weekIndex(t, origin time.Time) int {
	return int(startOfWeek(t).Sub(startOfWeek(origin)).Hours() / (24 * 7))
}

// WeeklySeries buckets timeline events into ISO weeks spanning the course
// window. Weeks with no events hold zero; the series always covers the
// whole window so week indexes stay comparable across students.
func WeeklySeries(tl model.Timeline, course model.Course) []float64 {
	n := weekIndex(course.End, course.Start) + 1
	if n < 1 {
		n = 1
	}
	series := make([]float64, n)
	for _, ts := range tl {
		w := weekIndex(ts, course.Start)
		if w < 0 || w >= n {
			continue
		}
		series[w]++
	}
	return series
}
