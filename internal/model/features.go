package model

type FeatureIndex int

// Feature order is fixed: vector values and flag bits are addressed by it.
// New features append at the end.
const (
	FeatSessionCount FeatureIndex = iota
	FeatSessionGapMin
	FeatSessionGapMax
	FeatSessionGapMean
	FeatSessionGapStd
	FeatSessionRegularity
	FeatSessionsPerWeek

	FeatWeekdayMorningPct
	FeatWeekdayAfternoonPct
	FeatWeekdayEveningPct
	FeatWeekdayNightPct
	FeatWeekendMorningPct
	FeatWeekendAfternoonPct
	FeatWeekendEveningPct
	FeatWeekendNightPct
	FeatWeekdayMorningConsistency
	FeatWeekdayAfternoonConsistency
	FeatWeekendConsistency

	FeatSpectral0
	FeatSpectral1
	FeatSpectral2
	FeatSpectral3
	FeatSpectral4
	FeatSpectral5
	FeatSpectral6
	FeatSpectral7
	FeatSpectral8
	FeatSpectral9
	FeatSpectral10
	FeatSpectral11

	FeatVelocity
	FeatAcceleration
	FeatWeeklyCV
	FeatTrendReversals
	FeatEarlyEngagementRatio
	FeatLateSurge

	FeatPeakCountLow
	FeatPeakCountMid
	FeatPeakCountHigh
	FeatPeakRatio
	FeatMaxPosSlope
	FeatMaxNegSlope
	FeatSlopeStd
	FeatPosSlopeSum
	FeatNegSlopeSum
	FeatWeeklyRange

	FeatFirstAccessDay
	FeatFirstModuleDay
	FeatFirstAssignmentDay
	FeatAccessTimePct

	FeatTotalPageViews
	FeatTotalParticipations
	FeatActivitySpanDays
	FeatUniqueActiveHours

	NumFeatures = int(iota)
)

// SpectralCoefficients is the number of spectral slots a vector carries.
const SpectralCoefficients = int(FeatVelocity - FeatSpectral0)

func Spectral(k int) FeatureIndex {
	return FeatSpectral0 + FeatureIndex(k)
}

var featureNames = [NumFeatures]string{
	FeatSessionCount:                "session_count",
	FeatSessionGapMin:               "session_gap_min_hours",
	FeatSessionGapMax:               "session_gap_max_hours",
	FeatSessionGapMean:              "session_gap_mean_hours",
	FeatSessionGapStd:               "session_gap_std_hours",
	FeatSessionRegularity:           "session_regularity",
	FeatSessionsPerWeek:             "sessions_per_week",
	FeatWeekdayMorningPct:           "weekday_morning_pct",
	FeatWeekdayAfternoonPct:         "weekday_afternoon_pct",
	FeatWeekdayEveningPct:           "weekday_evening_pct",
	FeatWeekdayNightPct:             "weekday_night_pct",
	FeatWeekendMorningPct:           "weekend_morning_pct",
	FeatWeekendAfternoonPct:         "weekend_afternoon_pct",
	FeatWeekendEveningPct:           "weekend_evening_pct",
	FeatWeekendNightPct:             "weekend_night_pct",
	FeatWeekdayMorningConsistency:   "weekday_morning_consistency",
	FeatWeekdayAfternoonConsistency: "weekday_afternoon_consistency",
	FeatWeekendConsistency:          "weekend_consistency",
	FeatSpectral0:                   "dct_coef_0",
	FeatSpectral1:                   "dct_coef_1",
	FeatSpectral2:                   "dct_coef_2",
	FeatSpectral3:                   "dct_coef_3",
	FeatSpectral4:                   "dct_coef_4",
	FeatSpectral5:                   "dct_coef_5",
	FeatSpectral6:                   "dct_coef_6",
	FeatSpectral7:                   "dct_coef_7",
	FeatSpectral8:                   "dct_coef_8",
	FeatSpectral9:                   "dct_coef_9",
	FeatSpectral10:                  "dct_coef_10",
	FeatSpectral11:                  "dct_coef_11",
	FeatVelocity:                    "engagement_velocity",
	FeatAcceleration:                "engagement_acceleration",
	FeatWeeklyCV:                    "weekly_cv",
	FeatTrendReversals:              "trend_reversals",
	FeatEarlyEngagementRatio:        "early_engagement_ratio",
	FeatLateSurge:                   "late_surge",
	FeatPeakCountLow:                "peak_count_low",
	FeatPeakCountMid:                "peak_count_mid",
	FeatPeakCountHigh:               "peak_count_high",
	FeatPeakRatio:                   "peak_ratio",
	FeatMaxPosSlope:                 "max_pos_slope",
	FeatMaxNegSlope:                 "max_neg_slope",
	FeatSlopeStd:                    "slope_std",
	FeatPosSlopeSum:                 "pos_slope_sum",
	FeatNegSlopeSum:                 "neg_slope_sum",
	FeatWeeklyRange:                 "weekly_range",
	FeatFirstAccessDay:              "first_access_day",
	FeatFirstModuleDay:              "first_module_day",
	FeatFirstAssignmentDay:          "first_assignment_day",
	FeatAccessTimePct:               "access_time_pct",
	FeatTotalPageViews:              "total_page_views",
	FeatTotalParticipations:         "total_participations",
	FeatActivitySpanDays:            "activity_span_days",
	FeatUniqueActiveHours:           "unique_active_hours",
}

var featuresByName = func() map[string]FeatureIndex {
	m := make(map[string]FeatureIndex, NumFeatures)
	for i := 0; i < NumFeatures; i++ {
		m[featureNames[i]] = FeatureIndex(i)
	}
	return m
}()

func (f FeatureIndex) Valid() bool {
	return f >= 0 && int(f) < NumFeatures
}

func (f FeatureIndex) Name() string {
	if !f.Valid() {
		return "unknown"
	}
	return featureNames[f]
}

func FeatureByName(name string) (FeatureIndex, bool) {
	f, ok := featuresByName[name]
	return f, ok
}

// FeatureNames returns the canonical names in index order.
func FeatureNames() []string {
	out := make([]string, NumFeatures)
	copy(out, featureNames[:])
	return out
}
