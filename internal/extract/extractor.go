package extract

import (
	"log/slog"

	"edupulse/internal/config"
	"edupulse/internal/model"
)

type Extractor struct {
	params config.ExtractionConfig
	logger *slog.Logger
}

func NewExtractor(params config.ExtractionConfig, logger *slog.Logger) *Extractor {
	return &Extractor{params: params, logger: logger}
}

// Extract produces the complete raw feature vector for one student-course
// pair. It never fails: statistics whose inputs are degenerate come back
// as a sentinel value with the matching flag bit set. Norm starts as a
// copy of Values until a population pass replaces the allow-listed subset.
func (e *Extractor) Extract(act model.StudentActivity) model.FeatureVector {
	v := model.FeatureVector{
		StudentID: act.StudentID,
		CourseID:  act.Course.ID,
		Malformed: act.Malformed,
	}
	if !act.ModulesAvailable {
		v.Conditions.Set(model.CondModulesUnavailable)
	}
	if !act.AssignmentsAvailable {
		v.Conditions.Set(model.CondAssignmentsUnavailable)
	}

	tl, dropped := BuildTimeline(act)
	v.Dropped = dropped
	if len(tl) == 0 {
		return e.insufficient(v)
	}

	stats, _ := AnalyzeSessions(tl, e.params.SessionGap, act.Course)
	v.Values[model.FeatSessionCount] = float64(stats.Count)
	v.Values[model.FeatSessionsPerWeek] = stats.PerWeek
	if stats.GapsDefined {
		v.Values[model.FeatSessionGapMin] = stats.GapMin
		v.Values[model.FeatSessionGapMax] = stats.GapMax
		v.Values[model.FeatSessionGapMean] = stats.GapMean
		v.Values[model.FeatSessionGapStd] = stats.GapStd
		v.Values[model.FeatSessionRegularity] = stats.Regularity
	} else {
		v.Flags.Set(model.FeatSessionGapMin)
		v.Flags.Set(model.FeatSessionGapMax)
		v.Flags.Set(model.FeatSessionGapMean)
		v.Flags.Set(model.FeatSessionGapStd)
		v.Flags.Set(model.FeatSessionRegularity)
	}

	blocks := AnalyzeTimeBlocks(tl)
	for i := 0; i < numBlocks; i++ {
		v.Values[model.FeatWeekdayMorningPct+model.FeatureIndex(i)] = blocks.Proportions[i]
	}
	v.Values[model.FeatWeekdayMorningConsistency] = blocks.MorningConsistency
	v.Values[model.FeatWeekdayAfternoonConsistency] = blocks.AfternoonConsistency
	v.Values[model.FeatWeekendConsistency] = blocks.WeekendConsistency

	sp := AnalyzeSpectrum(tl)
	for k := 0; k < model.SpectralCoefficients; k++ {
		v.Values[model.Spectral(k)] = sp.Coefs[k]
	}

	series := WeeklySeries(tl, act.Course)

	tr := AnalyzeTrajectory(series, e.params.EarlyWeeks, e.params.LateWeeks)
	setOrFlag(&v, model.FeatVelocity, tr.Velocity, tr.VelocityOK)
	setOrFlag(&v, model.FeatAcceleration, tr.Acceleration, tr.AccelerationOK)
	setOrFlag(&v, model.FeatWeeklyCV, tr.CV, tr.CVOK)
	v.Values[model.FeatTrendReversals] = tr.Reversals
	setOrFlag(&v, model.FeatEarlyEngagementRatio, tr.EarlyRatio, tr.EarlyOK)
	setOrFlag(&v, model.FeatLateSurge, tr.LateSurge, tr.LateOK)

	wl := AnalyzeWorkload(series, e.params.PeakLow, e.params.PeakMid, e.params.PeakHigh, e.params.Epsilon)
	v.Values[model.FeatPeakCountLow] = wl.PeakLow
	v.Values[model.FeatPeakCountMid] = wl.PeakMid
	v.Values[model.FeatPeakCountHigh] = wl.PeakHigh
	v.Values[model.FeatPeakRatio] = wl.PeakRatio
	setOrFlag(&v, model.FeatMaxPosSlope, wl.MaxPos, wl.SlopesOK)
	setOrFlag(&v, model.FeatMaxNegSlope, wl.MaxNeg, wl.SlopesOK)
	setOrFlag(&v, model.FeatSlopeStd, wl.SlopeStd, wl.SlopesOK)
	v.Values[model.FeatPosSlopeSum] = wl.PosSum
	v.Values[model.FeatNegSlopeSum] = wl.NegSum
	v.Values[model.FeatWeeklyRange] = wl.Range

	tmg := AnalyzeTiming(act.Course, tl, act, e.params.AccessSample, e.params.LogFloor)
	setOrFlag(&v, model.FeatFirstAccessDay, tmg.FirstAccess, tmg.FirstAccessOK)
	setDayOrSentinel(&v, model.FeatFirstModuleDay, tmg.FirstModule, tmg.FirstModuleOK)
	setDayOrSentinel(&v, model.FeatFirstAssignmentDay, tmg.FirstAssignment, tmg.FirstAssignmentOK)
	setOrFlag(&v, model.FeatAccessTimePct, tmg.AccessPct, tmg.AccessPctOK)

	agg := CollectAggregates(act, tl)
	setOrFlag(&v, model.FeatTotalPageViews, agg.Views, agg.ViewsOK)
	setOrFlag(&v, model.FeatTotalParticipations, agg.Participations, agg.ParticipationsOK)
	v.Values[model.FeatActivitySpanDays] = agg.SpanDays
	v.Values[model.FeatUniqueActiveHours] = agg.UniqueHours

	v.Norm = v.Values
	return v
}

// insufficient emits the short-circuit vector for an empty timeline: every
// feature flagged, day sentinels at -1, so the student still participates
// in population denominators downstream.
func (e *Extractor) insufficient(v model.FeatureVector) model.FeatureVector {
	v.Conditions.Set(model.CondEmptyTimeline)
	for i := 0; i < model.NumFeatures; i++ {
		v.Flags.Set(model.FeatureIndex(i))
	}
	v.Values[model.FeatFirstModuleDay] = -1
	v.Values[model.FeatFirstAssignmentDay] = -1
	v.Norm = v.Values
	if e.logger != nil {
		e.logger.Debug("empty timeline", "student_id", v.StudentID, "course_id", v.CourseID)
	}
	return v
}

func setOrFlag(v *model.FeatureVector, f model.FeatureIndex, val float64, ok bool) {
	if ok {
		v.Values[f] = val
		return
	}
	v.Flags.Set(f)
}

// Day features use -1 as the sentinel so a flagged value can never be
// mistaken for day zero.
func setDayOrSentinel(v *model.FeatureVector, f model.FeatureIndex, val float64, ok bool) {
	if ok {
		v.Values[f] = val
		return
	}
	v.Values[f] = -1
	v.Flags.Set(f)
}
