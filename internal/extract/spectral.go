package extract

import (
	"math"

	"edupulse/internal/model"
)

// HistogramSlots is one slot per hour of the week, Monday 00:00 first.
const HistogramSlots = 7 * 24

func WeeklyHistogram(tl model.Timeline) []float64 {
	hist := make([]float64, HistogramSlots)
	for _, ts := range tl {
		t := ts.UTC()
		day := (int(t.Weekday()) + 6) % 7
		hist[day*24+t.Hour()]++
	}
	return hist
}

type Spectrum struct {
	Coefs   [model.SpectralCoefficients]float64
	Defined bool
}

// AnalyzeSpectrum normalizes the weekly histogram to sum one and keeps the
// lowest coefficients of its orthonormal cosine transform. An all-zero
// histogram skips normalization and yields zero coefficients.
func AnalyzeSpectrum(tl model.Timeline) Spectrum {
	var sp Spectrum
	hist := WeeklyHistogram(tl)
	total := sum(hist)
	if total == 0 {
		return sp
	}
	for i := range hist {
		hist[i] /= total
	}
	copy(sp.Coefs[:], DCT(hist, model.SpectralCoefficients))
	sp.Defined = true
	return sp
}

// DCT returns the first k coefficients of the orthonormal type-II
// discrete cosine transform of x.
func DCT(x []float64, k int) []float64 {
	n := len(x)
	out := make([]float64, k)
	if n == 0 {
		return out
	}
	for j := 0; j < k; j++ {
		var acc float64
		for i, v := range x {
			acc += v * math.Cos(math.Pi*(2*float64(i)+1)*float64(j)/(2*float64(n)))
		}
		scale := math.Sqrt(2 / float64(n))
		if j == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		out[j] = scale * acc
	}
	return out
}

// InverseDCT reconstructs a length-n signal from leading coefficients,
// treating the missing tail as zero.
func InverseDCT(coefs []float64, n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		var acc float64
		for j, c := range coefs {
			scale := math.Sqrt(2 / float64(n))
			if j == 0 {
				scale = math.Sqrt(1 / float64(n))
			}
			acc += scale * c * math.Cos(math.Pi*(2*float64(i)+1)*float64(j)/(2*float64(n)))
		}
		out[i] = acc
	}
	return out
}
