package extract

import (
	"time"

	"edupulse/internal/model"
)

type Aggregates struct {
	Views            float64
	Participations   float64
	SpanDays         float64
	UniqueHours      float64
	ViewsOK          bool
	ParticipationsOK bool
}

// CollectAggregates passes the supplied totals through after checking they
// are non-negative, and derives span and distinct active hours from the
// timeline.
func CollectAggregates(act model.StudentActivity, tl model.Timeline) Aggregates {
	a := Aggregates{}
	if act.TotalPageViews >= 0 {
		a.Views = float64(act.TotalPageViews)
		a.ViewsOK = true
	}
	if act.TotalParticipations >= 0 {
		a.Participations = float64(act.TotalParticipations)
		a.ParticipationsOK = true
	}
	if len(tl) == 0 {
		return a
	}
	a.SpanDays = tl[len(tl)-1].Sub(tl[0]).Hours() / 24
	seen := make(map[int64]struct{})
	for _, ts := range tl {
		seen[ts.UTC().Truncate(time.Hour).Unix()] = struct{}{}
	}
	a.UniqueHours = float64(len(seen))
	return a
}
