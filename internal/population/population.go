package population

import (
	"math"

	"edupulse/internal/model"
)

// Population is the course-scoped view assembled after every in-scope
// student's vector exists. Normalization and agglomeration run against it,
// never against partial state.
type Population struct {
	CourseID string
	Vectors  []*model.FeatureVector
}

func New(courseID string, vectors []*model.FeatureVector) *Population {
	return &Population{CourseID: courseID, Vectors: vectors}
}

func (p *Population) Size() int {
	return len(p.Vectors)
}

func (p *Population) column(f model.FeatureIndex) []float64 {
	xs := make([]float64, len(p.Vectors))
	for i, v := range p.Vectors {
		xs[i] = v.Values[f]
	}
	return xs
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var m float64
	for _, x := range xs {
		m += x
	}
	m /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return m, math.Sqrt(ss / float64(len(xs)))
}

// ResolveFeatures maps canonical names to indexes, dropping unknowns.
func ResolveFeatures(names []string) []model.FeatureIndex {
	out := make([]model.FeatureIndex, 0, len(names))
	for _, name := range names {
		if f, ok := model.FeatureByName(name); ok {
			out = append(out, f)
		}
	}
	return out
}
