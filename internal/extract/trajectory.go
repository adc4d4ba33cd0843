package extract

type Trajectory struct {
	Velocity       float64
	Acceleration   float64
	CV             float64
	Reversals      float64
	EarlyRatio     float64
	LateSurge      float64
	VelocityOK     bool
	AccelerationOK bool
	CVOK           bool
	EarlyOK        bool
	LateOK         bool
}

// AnalyzeTrajectory characterizes the shape of the weekly count series.
// Early and late windows shrink to the available length; the late window
// always leaves at least one prior week so its denominator exists.
func AnalyzeTrajectory(series []float64, earlyWeeks, lateWeeks int) Trajectory {
	var tr Trajectory
	n := len(series)
	if n == 0 {
		return tr
	}

	tr.Velocity, tr.VelocityOK = linearSlope(series)
	tr.Acceleration, tr.AccelerationOK = quadLeading(series)
	if tr.AccelerationOK {
		tr.Acceleration *= 2
	}

	m := mean(series)
	if m != 0 {
		tr.CV = popStd(series) / m
		tr.CVOK = true
	}

	diffs := make([]float64, 0, n)
	for i := 1; i < n; i++ {
		diffs = append(diffs, series[i]-series[i-1])
	}
	for i := 1; i < len(diffs); i++ {
		if diffs[i-1]*diffs[i] < 0 {
			tr.Reversals++
		}
	}

	total := sum(series)
	early := earlyWeeks
	if early > n {
		early = n
	}
	if total != 0 {
		tr.EarlyRatio = sum(series[:early]) / total
		tr.EarlyOK = true
	}

	if n >= 2 {
		late := lateWeeks
		if late > n-1 {
			late = n - 1
		}
		prior := mean(series[:n-late])
		if prior != 0 {
			tr.LateSurge = sum(series[n-late:]) / prior
			tr.LateOK = true
		}
	}
	return tr
}
