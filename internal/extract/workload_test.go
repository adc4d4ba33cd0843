package extract

import (
	"math"
	"testing"
)

func TestWorkloadPeakCounts(t *testing.T) {
	// Mean 82.5, so the thresholds sit at 103.125, 123.75 and 165.
	series := []float64{50, 45, 60, 55, 80, 100, 120, 150}
	w := AnalyzeWorkload(series, 1.25, 1.5, 2.0, 1e-9)

	if w.PeakLow != 2 || w.PeakMid != 1 || w.PeakHigh != 0 {
		t.Fatalf("peak counts: low %v mid %v high %v", w.PeakLow, w.PeakMid, w.PeakHigh)
	}
	if !closeTo(w.PeakRatio, 0, 1e-9) {
		t.Fatalf("peak ratio: got %v want 0", w.PeakRatio)
	}
}

func TestWorkloadPeakCountsNest(t *testing.T) {
	for _, series := range [][]float64{
		{50, 45, 60, 55, 80, 100, 120, 150},
		{1, 1, 1, 1, 10},
		{3, 3, 3},
		{0, 0, 9, 0},
	} {
		w := AnalyzeWorkload(series, 1.25, 1.5, 2.0, 1e-9)
		if w.PeakHigh > w.PeakMid || w.PeakMid > w.PeakLow {
			t.Fatalf("peak counts must nest for %v: %v %v %v",
				series, w.PeakLow, w.PeakMid, w.PeakHigh)
		}
	}
}

func TestWorkloadThresholdIsStrict(t *testing.T) {
	// Every week equals the mean, so nothing exceeds any multiple of it.
	w := AnalyzeWorkload([]float64{4, 4, 4, 4}, 1.0, 1.5, 2.0, 1e-9)
	if w.PeakLow != 0 {
		t.Fatalf("a week equal to the threshold must not count, got %v", w.PeakLow)
	}
}

func TestWorkloadSlopes(t *testing.T) {
	series := []float64{50, 45, 60, 55, 80, 100, 120, 150}
	w := AnalyzeWorkload(series, 1.25, 1.5, 2.0, 1e-9)

	if !w.SlopesOK {
		t.Fatalf("slopes should be defined for 8 weeks")
	}
	if w.MaxPos != 30 || w.MaxNeg != -5 {
		t.Fatalf("slope extremes: max %v min %v", w.MaxPos, w.MaxNeg)
	}
	if w.PosSum != 110 || w.NegSum != -10 {
		t.Fatalf("slope sums: pos %v neg %v", w.PosSum, w.NegSum)
	}
	if w.Range != 105 {
		t.Fatalf("weekly range: got %v want 105", w.Range)
	}
	// Diffs are [-5 15 -5 25 20 20 30]: mean 100/7, squares sum 2600.
	wantStd := math.Sqrt(2600.0/7 - math.Pow(100.0/7, 2))
	if !closeTo(w.SlopeStd, wantStd, 1e-9) {
		t.Fatalf("slope std: got %v want %v", w.SlopeStd, wantStd)
	}
}

func TestWorkloadSingleWeek(t *testing.T) {
	w := AnalyzeWorkload([]float64{7}, 1.25, 1.5, 2.0, 1e-9)

	if w.SlopesOK {
		t.Fatalf("one week has no week-over-week differences")
	}
	if w.MaxPos != 0 || w.MaxNeg != 0 || w.SlopeStd != 0 || w.PosSum != 0 || w.NegSum != 0 {
		t.Fatalf("slope stats should stay zero: %+v", w)
	}
	if w.Range != 0 {
		t.Fatalf("single week range should be zero, got %v", w.Range)
	}
}

func TestWorkloadEmptySeries(t *testing.T) {
	w := AnalyzeWorkload(nil, 1.25, 1.5, 2.0, 1e-9)
	if w.SlopesOK || w.PeakLow != 0 || w.Range != 0 {
		t.Fatalf("empty series should yield the zero value: %+v", w)
	}
}
