package model

import "math/bits"

// FlagSet marks features whose value is a sentinel rather than a measurement.
// One bit per feature, which holds as long as NumFeatures stays at or below 64.
type FlagSet uint64

func (s *FlagSet) Set(f FeatureIndex) {
	if f.Valid() {
		*s |= 1 << uint(f)
	}
}

func (s FlagSet) Has(f FeatureIndex) bool {
	return f.Valid() && s&(1<<uint(f)) != 0
}

func (s FlagSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

func (s FlagSet) Any() bool {
	return s != 0
}

// Conditions record vector-level provenance that individual feature flags
// cannot carry, such as why a sentinel was emitted.
type Conditions uint8

const (
	CondNormFallback Conditions = 1 << iota
	CondModulesUnavailable
	CondAssignmentsUnavailable
	CondEmptyTimeline
)

func (c *Conditions) Set(cond Conditions) {
	*c |= cond
}

func (c Conditions) Has(cond Conditions) bool {
	return c&cond != 0
}
