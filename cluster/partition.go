// SPDX-License-Identifier: MIT

package cluster

import (
	"sort"

	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/votes"
)

// Partition clusters the participant coordinates of a projection.
// See Cluster for the selection rules.
func Partition(p *pca.Result, opts ...Option) (*Result, error) {
	if p == nil {
		return nil, ErrNilProjection
	}

	return Cluster(p.Participants, p.Coordinates, opts...)
}

// Cluster partitions points (one per id) into opinion groups.
// Implementation:
//   - Stage 1: validate; short-circuit the degenerate cases.
//   - Stage 2: for each candidate k run KMeans and score it by silhouette
//     over a deterministic sample.
//   - Stage 3: keep the best admissible candidate, drop its small clusters
//     and number the remaining groups by earliest member.
//
// Errors:
//   - ErrDimensionMismatch, option errors.
//
// Complexity: Time O(K·restarts·iter·n·k·d + K·s·n·d) for K candidates and
// a silhouette sample of s points, Space O(n·d).
func Cluster(ids []votes.ParticipantID, points [][]float64, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if len(ids) != len(points) {
		return nil, ErrDimensionMismatch
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}

	n := len(points)
	if n == 0 {
		return &Result{index: map[votes.ParticipantID]int{}}, nil
	}
	if n < o.MinGroupSize {
		return single(ids, points), nil
	}

	sample, err := silhouetteSample(n, o)
	if err != nil {
		return nil, err
	}

	var (
		best       *KMeansResult
		bestSil    float64
		candidates []Candidate
	)
	for k := o.MinGroups; k <= o.MaxGroups; k++ {
		cand := Candidate{K: k}
		if k > n || distinctCount(points, k) < k {
			candidates = append(candidates, cand)
			continue
		}
		km := kmeans(points, k, o)
		cand.Sizes = append([]int(nil), km.Sizes...)
		cand.Inertia = km.Inertia
		cand.Silhouette = silhouette(points, km.Assign, k, sample)
		cand.Admissible = countAtLeast(km.Sizes, o.MinGroupSize) >= 2
		candidates = append(candidates, cand)

		if cand.Admissible && (best == nil || cand.Silhouette > bestSil) {
			best, bestSil = km, cand.Silhouette
		}
	}
	if best == nil {
		res := single(ids, points)
		res.Candidates = candidates

		return res, nil
	}

	res := build(ids, best, o.MinGroupSize)
	res.K = len(best.Centroids)
	res.Silhouette = bestSil
	res.Candidates = candidates

	return res, nil
}

// single returns the one-group fallback.
func single(ids []votes.ParticipantID, points [][]float64) *Result {
	members := append([]votes.ParticipantID(nil), ids...)
	index := make(map[votes.ParticipantID]int, len(ids))
	for _, id := range ids {
		index[id] = 0
	}

	return &Result{
		Groups: []Group{{ID: 0, Members: members, Centroid: mean(points)}},
		K:      1,
		index:  index,
	}
}

// build turns a k-means partition into groups, discarding clusters smaller
// than minSize. Group ids follow each group's earliest member.
func build(ids []votes.ParticipantID, km *KMeansResult, minSize int) *Result {
	res := &Result{index: make(map[votes.ParticipantID]int, len(ids))}
	groupOf := make(map[int]int, len(km.Centroids))
	for i, c := range km.Assign {
		if km.Sizes[c] < minSize {
			res.Unassigned = append(res.Unassigned, ids[i])
			continue
		}
		g, ok := groupOf[c]
		if !ok {
			g = len(res.Groups)
			groupOf[c] = g
			res.Groups = append(res.Groups, Group{ID: g, Centroid: clonePoint(km.Centroids[c])})
		}
		res.Groups[g].Members = append(res.Groups[g].Members, ids[i])
		res.index[ids[i]] = g
	}

	return res
}

// silhouetteSample returns the sorted indices scored by the silhouette.
func silhouetteSample(n int, o Options) ([]int, error) {
	if o.SilhouetteSample <= 0 || n <= o.SilhouetteSample {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}

		return idx, nil
	}
	perm, err := permRange(n, streamRNG(o.Seed, streamSilhouette))
	if err != nil {
		return nil, err
	}
	idx := perm[:o.SilhouetteSample]
	sort.Ints(idx)

	return idx, nil
}

func countAtLeast(sizes []int, minSize int) int {
	n := 0
	for _, s := range sizes {
		if s >= minSize {
			n++
		}
	}

	return n
}

// mean returns the coordinate-wise mean of points, or nil for no points.
func mean(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := make([]float64, len(points[0]))
	for _, p := range points {
		for d := range p {
			out[d] += p[d]
		}
	}
	for d := range out {
		out[d] /= float64(len(points))
	}

	return out
}
