package extract

import (
	"sort"

	"edupulse/internal/model"
)

// BuildTimeline flattens hour buckets and participation instants into a
// sorted Timeline. A bucket with weight n contributes n entries at the
// bucket instant; nothing is spread inside the hour. Instants outside the
// course window are dropped and counted, never an error.
func BuildTimeline(act model.StudentActivity) (model.Timeline, int) {
	var dropped int
	tl := make(model.Timeline, 0, len(act.PageViews)+len(act.Participations))
	for _, ev := range act.PageViews {
		if ev.Weight <= 0 {
			continue
		}
		if !act.Course.Contains(ev.Timestamp) {
			dropped += ev.Weight
			continue
		}
		for i := 0; i < ev.Weight; i++ {
			tl = append(tl, ev.Timestamp)
		}
	}
	for _, ts := range act.Participations {
		if !act.Course.Contains(ts) {
			dropped++
			continue
		}
		tl = append(tl, ts)
	}
	sort.Slice(tl, func(i, j int) bool { return tl[i].Before(tl[j]) })
	return tl, dropped
}
