package extract

import "math"

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return sum(xs) / float64(len(xs))
}

// popVariance is one-pass Welford over the full population.
func popVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var n int
	var m float64
	var m2 float64
	for _, x := range xs {
		n++
		diff := x - m
		m += diff / float64(n)
		m2 += diff * (x - m)
	}
	return m2 / float64(n)
}

func popStd(xs []float64) float64 {
	return math.Sqrt(popVariance(xs))
}

// sampleStd divides by n-1; a single observation yields 0.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var n int
	var m float64
	var m2 float64
	for _, x := range xs {
		n++
		diff := x - m
		m += diff / float64(n)
		m2 += diff * (x - m)
	}
	return math.Sqrt(m2 / float64(n-1))
}

func minMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// linearSlope fits y against x = 0..n-1 by least squares and returns
// the slope. Undefined below two points.
func linearSlope(ys []float64) (float64, bool) {
	n := len(ys)
	if n < 2 {
		return 0, false
	}
	xMean := float64(n-1) / 2
	yMean := mean(ys)
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// quadLeading fits y = ax^2 + bx + c against x = 0..n-1 and returns a.
// Needs at least three points.
func quadLeading(ys []float64) (float64, bool) {
	n := len(ys)
	if n < 3 {
		return 0, false
	}
	var s1, s2, s3, s4 float64
	var t0, t1, t2 float64
	for i, y := range ys {
		x := float64(i)
		x2 := x * x
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
		t0 += y
		t1 += x * y
		t2 += x2 * y
	}
	s0 := float64(n)
	det := s4*(s2*s0-s1*s1) - s3*(s3*s0-s1*s2) + s2*(s3*s1-s2*s2)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	detA := t2*(s2*s0-s1*s1) - s3*(t1*s0-t0*s1) + s2*(t1*s1-t0*s2)
	return detA / det, true
}
