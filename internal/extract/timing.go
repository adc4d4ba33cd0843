package extract

import (
	"math"
	"time"

	"edupulse/internal/model"
)

type Timing struct {
	FirstAccess       float64
	FirstModule       float64
	FirstAssignment   float64
	AccessPct         float64
	FirstAccessOK     bool
	FirstModuleOK     bool
	FirstAssignmentOK bool
	AccessPctOK       bool
}

// AnalyzeTiming locates the first in-window instant of each feed as a
// fractional day offset from course start, and the geometric mean of the
// earliest access offsets as a fraction of course duration. Offsets are
// floored before the log so a start-of-course access never produces log(0).
func AnalyzeTiming(course model.Course, tl model.Timeline, act model.StudentActivity, sampleN int, logFloor float64) Timing {
	var tm Timing
	if len(tl) > 0 {
		tm.FirstAccess = tl[0].Sub(course.Start).Hours() / 24
		tm.FirstAccessOK = true
	}
	if act.ModulesAvailable {
		tm.FirstModule, tm.FirstModuleOK = firstDay(course, act.ModuleCompletions)
	}
	if act.AssignmentsAvailable {
		tm.FirstAssignment, tm.FirstAssignmentOK = firstDay(course, act.AssignmentInteractions)
	}

	duration := course.DurationDays()
	if len(tl) == 0 || duration <= 0 {
		return tm
	}
	n := sampleN
	if n > len(tl) {
		n = len(tl)
	}
	var acc float64
	for i := 0; i < n; i++ {
		off := tl[i].Sub(course.Start).Hours() / 24
		if off < logFloor {
			off = logFloor
		}
		acc += math.Log(off / duration)
	}
	tm.AccessPct = math.Exp(acc / float64(n))
	tm.AccessPctOK = true
	return tm
}

func firstDay(course model.Course, instants []time.Time) (float64, bool) {
	var best time.Time
	found := false
	for _, ts := range instants {
		if !course.Contains(ts) {
			continue
		}
		if !found || ts.Before(best) {
			best = ts
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best.Sub(course.Start).Hours() / 24, true
}
