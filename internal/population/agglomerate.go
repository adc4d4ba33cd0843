package population

import (
	"fmt"
	"sort"

	"edupulse/internal/model"
)

type Cluster struct {
	Name    string
	Members []model.FeatureIndex
}

// Agglomeration keeps the cluster membership alongside the per-student
// composite scores so consumers can trace every composite back to the raw
// features that formed it.
type Agglomeration struct {
	Clusters []Cluster
	Scores   [][]float64
}

type wardCluster struct {
	size     float64
	centroid []float64
	members  []int
}

// Agglomerate groups correlated features into target composite dimensions
// with Ward-linkage hierarchical clustering over the standardized feature
// columns. Each composite score is the mean of its members' z-scores.
// Merging is deterministic for a fixed population; assignments are not
// stable across cohorts. Populations below two students cannot be
// standardized and report false.
func (p *Population) Agglomerate(target int) (*Agglomeration, bool) {
	n := len(p.Vectors)
	if n < 2 || target < 1 {
		return nil, false
	}
	if target > model.NumFeatures {
		target = model.NumFeatures
	}

	z := make([][]float64, model.NumFeatures)
	for f := 0; f < model.NumFeatures; f++ {
		col := p.column(model.FeatureIndex(f))
		m, sd := meanStd(col)
		row := make([]float64, n)
		if sd != 0 {
			for i, x := range col {
				row[i] = (x - m) / sd
			}
		}
		z[f] = row
	}

	clusters := make([]*wardCluster, model.NumFeatures)
	for f := 0; f < model.NumFeatures; f++ {
		centroid := make([]float64, n)
		copy(centroid, z[f])
		clusters[f] = &wardCluster{size: 1, centroid: centroid, members: []int{f}}
	}

	for len(clusters) > target {
		bi, bj := 0, 1
		best := wardCost(clusters[0], clusters[1])
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if cost := wardCost(clusters[i], clusters[j]); cost < best {
					best = cost
					bi, bj = i, j
				}
			}
		}
		clusters[bi] = merge(clusters[bi], clusters[bj])
		clusters = append(clusters[:bj], clusters[bj+1:]...)
	}

	for _, c := range clusters {
		sort.Ints(c.members)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].members[0] < clusters[j].members[0] })

	agg := &Agglomeration{
		Clusters: make([]Cluster, len(clusters)),
		Scores:   make([][]float64, n),
	}
	for ci, c := range clusters {
		members := make([]model.FeatureIndex, len(c.members))
		for mi, f := range c.members {
			members[mi] = model.FeatureIndex(f)
		}
		agg.Clusters[ci] = Cluster{Name: fmt.Sprintf("composite_%d", ci+1), Members: members}
	}
	for vi := 0; vi < n; vi++ {
		scores := make([]float64, len(clusters))
		for ci, c := range clusters {
			var s float64
			for _, f := range c.members {
				s += z[f][vi]
			}
			scores[ci] = s / float64(len(c.members))
		}
		agg.Scores[vi] = scores
	}
	return agg, true
}

// wardCost is the within-cluster variance increase of merging a and b.
func wardCost(a, b *wardCluster) float64 {
	var d2 float64
	for i := range a.centroid {
		d := a.centroid[i] - b.centroid[i]
		d2 += d * d
	}
	return a.size * b.size / (a.size + b.size) * d2
}

func merge(a, b *wardCluster) *wardCluster {
	size := a.size + b.size
	centroid := make([]float64, len(a.centroid))
	for i := range centroid {
		centroid[i] = (a.size*a.centroid[i] + b.size*b.centroid[i]) / size
	}
	members := make([]int, 0, len(a.members)+len(b.members))
	members = append(members, a.members...)
	members = append(members, b.members...)
	return &wardCluster{size: size, centroid: centroid, members: members}
}
