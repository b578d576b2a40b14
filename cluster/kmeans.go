// SPDX-License-Identifier: MIT

package cluster

import (
	"math"
	"math/rand"
)

// KMeansResult is the best of several k-means restarts.
//
//   - Assign[i] is the cluster of point i in [0, k).
//   - Centroids[c] is the mean of the points assigned to c.
//   - Inertia is the sum of squared distances to the assigned centroid.
type KMeansResult struct {
	Assign     []int
	Centroids  [][]float64
	Sizes      []int
	Inertia    float64
	Iterations int
}

// KMeans clusters points into k groups. Options Seed, Restarts and
// MaxIterations apply; the restart with the lowest inertia wins, the first
// one on ties.
// Implementation:
//   - Stage 1: validate shape and k against the number of distinct points.
//   - Stage 2: per restart, k-means++ seeding from an independent stream.
//   - Stage 3: Lloyd iterations until assignments are stable or the budget
//     is spent.
//
// Errors:
//   - ErrDimensionMismatch (ragged points), ErrBadK, option errors.
//
// Complexity: Time O(restarts · iter · n · k · d), Space O(n + k·d).
func KMeans(points [][]float64, k int, opts ...Option) (*KMeansResult, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	if k < 1 || k > distinctCount(points, k) {
		return nil, ErrBadK
	}

	return kmeans(points, k, o), nil
}

// kmeans runs validated restarts and keeps the lowest inertia.
func kmeans(points [][]float64, k int, o Options) *KMeansResult {
	var best *KMeansResult
	for r := 0; r < o.Restarts; r++ {
		rng := streamRNG(o.Seed, streamRestart+uint64(k)<<32+uint64(r))
		res := lloyd(points, seedPlusPlus(points, k, rng), o.MaxIterations)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}

	return best
}

// seedPlusPlus picks k initial centroids: the first uniformly, each next one
// with probability proportional to its squared distance to the nearest
// centroid chosen so far. Requires at least k distinct points.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(n)]))

	d2 := make([]float64, n)
	for i := range points {
		d2[i] = sqDist(points[i], centroids[0])
	}
	for len(centroids) < k {
		total := 0.0
		for _, d := range d2 {
			total += d
		}
		target := rng.Float64() * total
		pick, acc := -1, 0.0
		for i, d := range d2 {
			if d == 0 {
				continue
			}
			pick = i
			acc += d
			if acc >= target {
				break
			}
		}
		c := clonePoint(points[pick])
		centroids = append(centroids, c)
		for i := range points {
			if d := sqDist(points[i], c); d < d2[i] {
				d2[i] = d
			}
		}
	}

	return centroids
}

// lloyd alternates assignment and centroid update. An empty cluster keeps
// its previous centroid.
func lloyd(points [][]float64, centroids [][]float64, maxIter int) *KMeansResult {
	n, k := len(points), len(centroids)
	dim := len(points[0])
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	sizes := make([]int, k)

	iter := 0
	for iter < maxIter {
		iter++
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
			sizes[c] = 0
		}
		for i, p := range points {
			c := assign[i]
			sizes[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}
		for c := range centroids {
			if sizes[c] == 0 {
				continue
			}
			for d := range sums[c] {
				centroids[c][d] = sums[c][d] / float64(sizes[c])
			}
		}
		if !changed {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centroids[assign[i]])
	}

	return &KMeansResult{
		Assign:     assign,
		Centroids:  centroids,
		Sizes:      sizes,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// nearest returns the index of the closest centroid, lowest index on ties.
func nearest(p []float64, centroids [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, ctr := range centroids {
		if d := sqDist(p, ctr); d < bestD {
			best, bestD = c, d
		}
	}

	return best
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}

	return s
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)

	return out
}

// validatePoints rejects ragged input.
func validatePoints(points [][]float64) error {
	if len(points) == 0 {
		return nil
	}
	dim := len(points[0])
	for _, p := range points {
		if len(p) != dim {
			return ErrDimensionMismatch
		}
	}

	return nil
}

// distinctCount returns min(limit, number of distinct points), comparing
// exactly.
// Complexity: O(n·limit·d).
func distinctCount(points [][]float64, limit int) int {
	uniq := make([][]float64, 0, limit)
outer:
	for _, p := range points {
		if len(uniq) >= limit {
			break
		}
		for _, u := range uniq {
			if sqDist(p, u) == 0 {
				continue outer
			}
		}
		uniq = append(uniq, p)
	}

	return len(uniq)
}
