package population

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupulse/internal/model"
)

// agglomerationFixture builds three students whose feature columns all have
// distinct shapes except session_count and session_gap_min_hours, which are
// affine copies of each other and so carry identical z-scores.
func agglomerationFixture() *Population {
	vectors := make([]*model.FeatureVector, 3)
	for i := range vectors {
		v := &model.FeatureVector{StudentID: string(rune('a' + i)), CourseID: "C1"}
		for f := 0; f < model.NumFeatures; f++ {
			switch i {
			case 0:
				v.Values[f] = 0
			case 1:
				v.Values[f] = 1
			case 2:
				v.Values[f] = float64(f + 2)
			}
		}
		vectors[i] = v
	}
	for i, raw := range []float64{5, 7, 9} {
		vectors[i].Values[model.FeatSessionGapMin] = raw
	}
	return New("C1", vectors)
}

func TestAgglomerateMergesCorrelatedFeatures(t *testing.T) {
	p := agglomerationFixture()
	agg, ok := p.Agglomerate(model.NumFeatures - 1)
	require.True(t, ok)
	require.Len(t, agg.Clusters, model.NumFeatures-1)

	var merged *Cluster
	for i := range agg.Clusters {
		if len(agg.Clusters[i].Members) == 2 {
			merged = &agg.Clusters[i]
			break
		}
	}
	require.NotNil(t, merged, "exactly one merge should have happened")
	assert.Equal(t,
		[]model.FeatureIndex{model.FeatSessionCount, model.FeatSessionGapMin},
		merged.Members)

	// The merged composite score is the shared z-score of its members.
	ci := 0 // first cluster sorts first because it contains feature 0
	assert.InDelta(t, -math.Sqrt(1.5), agg.Scores[0][ci], 1e-9)
	assert.InDelta(t, 0, agg.Scores[1][ci], 1e-9)
	assert.InDelta(t, math.Sqrt(1.5), agg.Scores[2][ci], 1e-9)
}

func TestAgglomeratePartitionsFeatures(t *testing.T) {
	p := agglomerationFixture()
	agg, ok := p.Agglomerate(7)
	require.True(t, ok)
	require.Len(t, agg.Clusters, 7)

	seen := make(map[model.FeatureIndex]bool)
	for _, c := range agg.Clusters {
		require.NotEmpty(t, c.Members)
		require.NotEmpty(t, c.Name)
		for _, f := range c.Members {
			require.False(t, seen[f], "feature %s appears in two clusters", f.Name())
			seen[f] = true
		}
	}
	assert.Len(t, seen, model.NumFeatures, "every feature must land in exactly one cluster")
}

func TestAgglomerateScoreShape(t *testing.T) {
	p := agglomerationFixture()
	agg, ok := p.Agglomerate(7)
	require.True(t, ok)

	require.Len(t, agg.Scores, p.Size())
	for _, row := range agg.Scores {
		require.Len(t, row, len(agg.Clusters))
		for _, s := range row {
			require.False(t, math.IsNaN(s) || math.IsInf(s, 0))
		}
	}
}

func TestAgglomerateDeterministic(t *testing.T) {
	a, ok := agglomerationFixture().Agglomerate(7)
	require.True(t, ok)
	b, ok := agglomerationFixture().Agglomerate(7)
	require.True(t, ok)

	assert.Equal(t, a.Clusters, b.Clusters)
	assert.Equal(t, a.Scores, b.Scores)
}

func TestAgglomerateTargetClamped(t *testing.T) {
	agg, ok := agglomerationFixture().Agglomerate(model.NumFeatures + 10)
	require.True(t, ok)
	assert.Len(t, agg.Clusters, model.NumFeatures)
}

func TestAgglomerateTooFewStudents(t *testing.T) {
	p := New("C1", []*model.FeatureVector{{StudentID: "solo"}})
	_, ok := p.Agglomerate(7)
	assert.False(t, ok)

	_, ok = agglomerationFixture().Agglomerate(0)
	assert.False(t, ok)
}
