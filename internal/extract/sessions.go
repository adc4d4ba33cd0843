package extract

import (
	"time"

	"edupulse/internal/model"
)

type Session struct {
	Start  time.Time
	End    time.Time
	Events int
}

// Segment splits a sorted timeline into sessions. A gap at or above the
// threshold closes the running session and opens the next one.
func Segment(tl model.Timeline, gap time.Duration) []Session {
	if len(tl) == 0 {
		return nil
	}
	sessions := make([]Session, 0, 8)
	cur := Session{Start: tl[0], End: tl[0], Events: 1}
	for _, ts := range tl[1:] {
		if ts.Sub(cur.End) >= gap {
			sessions = append(sessions, cur)
			cur = Session{Start: ts, End: ts, Events: 1}
			continue
		}
		cur.End = ts
		cur.Events++
	}
	return append(sessions, cur)
}

type SessionStats struct {
	Count       int
	GapMin      float64
	GapMax      float64
	GapMean     float64
	GapStd      float64
	Regularity  float64
	PerWeek     float64
	GapsDefined bool
}

// AnalyzeSessions derives gap statistics from the inter-session gaps only,
// in hours. Gap std is the sample deviation. Fewer than two sessions leave
// the gap statistics undefined.
func AnalyzeSessions(tl model.Timeline, gap time.Duration, course model.Course) (SessionStats, []Session) {
	sessions := Segment(tl, gap)
	stats := SessionStats{
		Count:   len(sessions),
		PerWeek: float64(len(sessions)) / course.DurationWeeks(),
	}
	if len(sessions) < 2 {
		return stats, sessions
	}
	gaps := make([]float64, 0, len(sessions)-1)
	for i := 1; i < len(sessions); i++ {
		gaps = append(gaps, sessions[i].Start.Sub(sessions[i-1].End).Hours())
	}
	stats.GapsDefined = true
	stats.GapMin, stats.GapMax = minMax(gaps)
	stats.GapMean = mean(gaps)
	stats.GapStd = sampleStd(gaps)
	stats.Regularity = 1 - stats.GapStd/stats.GapMean
	return stats, sessions
}
