package extract

type Workload struct {
	PeakLow   float64
	PeakMid   float64
	PeakHigh  float64
	PeakRatio float64
	MaxPos    float64
	MaxNeg    float64
	SlopeStd  float64
	PosSum    float64
	NegSum    float64
	Range     float64
	SlopesOK  bool
}

// AnalyzeWorkload counts weeks strictly above each nested peak threshold
// and summarizes week-over-week first differences. A single-week series
// has no differences, so the slope statistics stay at zero.
func AnalyzeWorkload(series []float64, low, mid, high, eps float64) Workload {
	var w Workload
	n := len(series)
	if n == 0 {
		return w
	}

	m := mean(series)
	for _, v := range series {
		if v > low*m {
			w.PeakLow++
		}
		if v > mid*m {
			w.PeakMid++
		}
		if v > high*m {
			w.PeakHigh++
		}
	}
	w.PeakRatio = w.PeakHigh / (w.PeakLow + eps)

	lo, hi := minMax(series)
	w.Range = hi - lo

	if n < 2 {
		return w
	}
	w.SlopesOK = true
	diffs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		d := series[i] - series[i-1]
		diffs = append(diffs, d)
		if d > 0 {
			w.PosSum += d
			if d > w.MaxPos {
				w.MaxPos = d
			}
		}
		if d < 0 {
			w.NegSum += d
			if d < w.MaxNeg {
				w.MaxNeg = d
			}
		}
	}
	w.SlopeStd = popStd(diffs)
	return w
}
