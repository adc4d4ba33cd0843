package extract

import (
	"testing"
	"time"

	"edupulse/internal/model"
)

func TestBuildTimelineExpandsWeights(t *testing.T) {
	act := model.StudentActivity{
		Course: testCourse(),
		PageViews: []model.RawEvent{
			{Timestamp: ts("2025-09-16T10:00:00Z"), Weight: 2},
			{Timestamp: ts("2025-09-15T14:00:00Z"), Weight: 3},
		},
		Participations: []time.Time{ts("2025-09-15T18:00:00Z")},
	}
	tl, dropped := BuildTimeline(act)

	if dropped != 0 {
		t.Fatalf("nothing should be dropped, got %d", dropped)
	}
	if len(tl) != 6 {
		t.Fatalf("expected 6 instants, got %d", len(tl))
	}
	for i := 1; i < len(tl); i++ {
		if tl[i].Before(tl[i-1]) {
			t.Fatalf("timeline not sorted at %d", i)
		}
	}
	if !tl[0].Equal(ts("2025-09-15T14:00:00Z")) || !tl[5].Equal(ts("2025-09-16T10:00:00Z")) {
		t.Fatalf("timeline order wrong: first %v last %v", tl[0], tl[5])
	}
}

func TestBuildTimelineDropsOutOfWindow(t *testing.T) {
	act := model.StudentActivity{
		Course: testCourse(),
		PageViews: []model.RawEvent{
			{Timestamp: ts("2025-08-20T10:00:00Z"), Weight: 4},
			{Timestamp: ts("2025-09-15T14:00:00Z"), Weight: 1},
		},
		Participations: []time.Time{ts("2026-01-05T10:00:00Z")},
	}
	tl, dropped := BuildTimeline(act)

	if len(tl) != 1 {
		t.Fatalf("expected 1 surviving instant, got %d", len(tl))
	}
	if dropped != 5 {
		t.Fatalf("expected 5 dropped (4 weighted + 1 participation), got %d", dropped)
	}
}

func TestBuildTimelineCourseBoundsInclusive(t *testing.T) {
	course := testCourse()
	act := model.StudentActivity{
		Course: course,
		PageViews: []model.RawEvent{
			{Timestamp: course.Start, Weight: 1},
			{Timestamp: course.End, Weight: 1},
		},
	}
	tl, dropped := BuildTimeline(act)

	if len(tl) != 2 || dropped != 0 {
		t.Fatalf("boundary instants should survive: kept %d dropped %d", len(tl), dropped)
	}
}

func TestBuildTimelineSkipsNonPositiveWeights(t *testing.T) {
	act := model.StudentActivity{
		Course: testCourse(),
		PageViews: []model.RawEvent{
			{Timestamp: ts("2025-09-15T14:00:00Z"), Weight: 0},
			{Timestamp: ts("2025-09-15T15:00:00Z"), Weight: -2},
		},
	}
	tl, dropped := BuildTimeline(act)

	if len(tl) != 0 || dropped != 0 {
		t.Fatalf("non-positive weights contribute nothing: kept %d dropped %d", len(tl), dropped)
	}
}

func TestBuildTimelineEmptyActivity(t *testing.T) {
	tl, dropped := BuildTimeline(model.StudentActivity{Course: testCourse()})
	if len(tl) != 0 || dropped != 0 {
		t.Fatalf("empty activity should yield an empty timeline")
	}
}
