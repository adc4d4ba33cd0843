package extract

import (
	"math"
	"testing"
	"time"

	"edupulse/internal/model"
)

func TestTimingFirstAccessDay(t *testing.T) {
	course := testCourse()
	tl := model.Timeline{ts("2025-09-03T12:00:00Z")}
	tm := AnalyzeTiming(course, tl, model.StudentActivity{Course: course}, 5, 1e-6)

	if !tm.FirstAccessOK || !closeTo(tm.FirstAccess, 2.5, 1e-9) {
		t.Fatalf("first access: got %v want 2.5", tm.FirstAccess)
	}
}

func TestTimingFirstAccessMonotone(t *testing.T) {
	course := testCourse()
	early := AnalyzeTiming(course, model.Timeline{ts("2025-09-02T08:00:00Z")}, model.StudentActivity{Course: course}, 5, 1e-6)
	late := AnalyzeTiming(course, model.Timeline{ts("2025-09-09T08:00:00Z")}, model.StudentActivity{Course: course}, 5, 1e-6)

	if early.FirstAccess >= late.FirstAccess {
		t.Fatalf("earlier access should give the smaller offset: %v vs %v",
			early.FirstAccess, late.FirstAccess)
	}
}

func TestTimingFirstModuleAndAssignment(t *testing.T) {
	course := testCourse()
	act := model.StudentActivity{
		Course:           course,
		ModulesAvailable: true,
		ModuleCompletions: []time.Time{
			ts("2025-09-10T00:00:00Z"),
			ts("2025-09-04T06:00:00Z"),
			ts("2025-08-01T00:00:00Z"), // before the course, ignored
		},
		AssignmentsAvailable:   true,
		AssignmentInteractions: []time.Time{ts("2025-09-08T00:00:00Z")},
	}
	tl := model.Timeline{ts("2025-09-02T00:00:00Z")}
	tm := AnalyzeTiming(course, tl, act, 5, 1e-6)

	if !tm.FirstModuleOK || !closeTo(tm.FirstModule, 3.25, 1e-9) {
		t.Fatalf("first module: got %v want 3.25", tm.FirstModule)
	}
	if !tm.FirstAssignmentOK || tm.FirstAssignment != 7 {
		t.Fatalf("first assignment: got %v want 7", tm.FirstAssignment)
	}
}

func TestTimingUntrackedFeedsUndefined(t *testing.T) {
	course := testCourse()
	act := model.StudentActivity{Course: course}
	tl := model.Timeline{ts("2025-09-02T00:00:00Z")}
	tm := AnalyzeTiming(course, tl, act, 5, 1e-6)

	if tm.FirstModuleOK || tm.FirstAssignmentOK {
		t.Fatalf("untracked feeds should stay undefined")
	}
}

func TestTimingAccessPctGeometricMean(t *testing.T) {
	course := model.Course{
		ID:    "GEO-1",
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 11, 0, 0, 0, 0, time.UTC),
	}
	// Offsets are 1 and 4 days over a 10-day course: gm(0.1, 0.4) = 0.2.
	tl := model.Timeline{
		ts("2025-09-02T00:00:00Z"),
		ts("2025-09-05T00:00:00Z"),
	}
	tm := AnalyzeTiming(course, tl, model.StudentActivity{Course: course}, 5, 1e-6)

	if !tm.AccessPctOK || !closeTo(tm.AccessPct, 0.2, 1e-9) {
		t.Fatalf("access pct: got %v want 0.2", tm.AccessPct)
	}
}

func TestTimingAccessPctSampleLimit(t *testing.T) {
	course := testCourse()
	tl := model.Timeline{
		ts("2025-09-02T00:00:00Z"),
		ts("2025-09-03T00:00:00Z"),
		ts("2025-12-01T00:00:00Z"), // beyond the sample, must not matter
	}
	a := AnalyzeTiming(course, tl, model.StudentActivity{Course: course}, 2, 1e-6)
	b := AnalyzeTiming(course, tl[:2], model.StudentActivity{Course: course}, 2, 1e-6)

	if !closeTo(a.AccessPct, b.AccessPct, 1e-12) {
		t.Fatalf("sample should cap the accesses considered: %v vs %v", a.AccessPct, b.AccessPct)
	}
}

func TestTimingAccessPctFloorsStartOfCourse(t *testing.T) {
	course := testCourse()
	tl := model.Timeline{course.Start}
	tm := AnalyzeTiming(course, tl, model.StudentActivity{Course: course}, 5, 1e-6)

	if !tm.AccessPctOK {
		t.Fatalf("access pct should be defined")
	}
	if math.IsNaN(tm.AccessPct) || math.IsInf(tm.AccessPct, 0) || tm.AccessPct <= 0 {
		t.Fatalf("zero offset must be floored, got %v", tm.AccessPct)
	}
}

func TestTimingEmptyTimeline(t *testing.T) {
	course := testCourse()
	tm := AnalyzeTiming(course, nil, model.StudentActivity{Course: course}, 5, 1e-6)

	if tm.FirstAccessOK || tm.AccessPctOK {
		t.Fatalf("access timing undefined without a timeline")
	}
}
