package population

import "edupulse/internal/model"

type NormalizeResult struct {
	Features []model.FeatureIndex
	Fallback bool
}

// Normalize replaces each vector's Norm entry with the course z-score for
// every allow-listed feature. A zero course deviation normalizes to zero
// for everyone. Populations below minPopulation keep their raw values and
// carry the fallback condition instead.
func (p *Population) Normalize(features []model.FeatureIndex, minPopulation int) NormalizeResult {
	if len(p.Vectors) < minPopulation {
		for _, v := range p.Vectors {
			v.Conditions.Set(model.CondNormFallback)
		}
		return NormalizeResult{Fallback: true}
	}
	for _, f := range features {
		if !f.Valid() {
			continue
		}
		m, sd := meanStd(p.column(f))
		for _, v := range p.Vectors {
			v.Normed.Set(f)
			if sd == 0 {
				v.Norm[f] = 0
				continue
			}
			v.Norm[f] = (v.Values[f] - m) / sd
		}
	}
	return NormalizeResult{Features: features}
}
