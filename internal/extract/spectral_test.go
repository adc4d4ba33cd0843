package extract

import (
	"math"
	"testing"
	"time"

	"edupulse/internal/model"
)

func TestWeeklyHistogramSlots(t *testing.T) {
	cases := []struct {
		instant string
		slot    int
	}{
		{"2025-09-01T00:30:00Z", 0},   // Monday 00h
		{"2025-09-01T23:05:00Z", 23},  // Monday 23h
		{"2025-09-03T05:00:00Z", 53},  // Wednesday 05h
		{"2025-09-07T23:59:00Z", 167}, // Sunday 23h
	}
	for _, c := range cases {
		hist := WeeklyHistogram(model.Timeline{ts(c.instant)})
		if hist[c.slot] != 1 {
			t.Fatalf("%s did not land in slot %d", c.instant, c.slot)
		}
		if got := sum(hist); got != 1 {
			t.Fatalf("histogram total %v, want 1", got)
		}
	}
}

func TestAnalyzeSpectrumEmpty(t *testing.T) {
	sp := AnalyzeSpectrum(nil)
	if sp.Defined {
		t.Fatalf("empty timeline should leave the spectrum undefined")
	}
	for k, c := range sp.Coefs {
		if c != 0 {
			t.Fatalf("coefficient %d non-zero for empty timeline: %v", k, c)
		}
	}
}

func TestSpectrumLeadingCoefficientInvariant(t *testing.T) {
	// Normalizing the histogram pins the leading coefficient at sqrt(1/168)
	// regardless of how much activity the student generated.
	light := model.Timeline{ts("2025-09-02T10:00:00Z")}
	heavy := model.Timeline{
		ts("2025-09-02T10:00:00Z"),
		ts("2025-09-02T10:10:00Z"),
		ts("2025-09-04T21:00:00Z"),
		ts("2025-09-06T08:00:00Z"),
	}
	want := math.Sqrt(1.0 / HistogramSlots)

	for _, tl := range []model.Timeline{light, heavy} {
		sp := AnalyzeSpectrum(tl)
		if !sp.Defined {
			t.Fatalf("spectrum should be defined")
		}
		if !closeTo(sp.Coefs[0], want, 1e-12) {
			t.Fatalf("leading coefficient %v, want %v", sp.Coefs[0], want)
		}
	}
}

func TestSpectrumUniformActivityIsFlat(t *testing.T) {
	base := ts("2025-09-01T00:30:00Z")
	tl := make(model.Timeline, 0, HistogramSlots)
	for h := 0; h < HistogramSlots; h++ {
		tl = append(tl, base.Add(time.Duration(h)*time.Hour))
	}
	sp := AnalyzeSpectrum(tl)

	if !closeTo(sp.Coefs[0], math.Sqrt(1.0/HistogramSlots), 1e-12) {
		t.Fatalf("leading coefficient wrong: %v", sp.Coefs[0])
	}
	for k := 1; k < model.SpectralCoefficients; k++ {
		if !closeTo(sp.Coefs[k], 0, 1e-12) {
			t.Fatalf("uniform activity should have no higher harmonics, coef %d = %v", k, sp.Coefs[k])
		}
	}
}

func TestDCTRoundTrip(t *testing.T) {
	x := []float64{1, 0, 2, 5, 3, 0, 0, 4, 1, 1, 0, 7, 2, 0, 3, 1}
	coefs := DCT(x, len(x))
	recon := InverseDCT(coefs, len(x))

	for i := range x {
		if !closeTo(recon[i], x[i], 1e-9) {
			t.Fatalf("round trip diverges at %d: got %v want %v", i, recon[i], x[i])
		}
	}
}

func TestDCTLowFrequencyExact(t *testing.T) {
	// A signal synthesized from 12 leading coefficients must come back with
	// exactly those coefficients.
	want := []float64{0.9, -0.4, 0.25, 0.1, -0.05, 0.3, 0, 0.15, -0.2, 0.05, 0.1, -0.08}
	sig := InverseDCT(want, HistogramSlots)
	got := DCT(sig, len(want))

	for k := range want {
		if !closeTo(got[k], want[k], 1e-9) {
			t.Fatalf("coefficient %d: got %v want %v", k, got[k], want[k])
		}
	}
}
