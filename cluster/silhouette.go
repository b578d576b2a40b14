// SPDX-License-Identifier: MIT

package cluster

import "math"

// Silhouette returns the mean silhouette coefficient of the partition
// assign over all points. Points in singleton clusters score 0, as does a
// partition with a single non-empty cluster.
//
// Errors:
//   - ErrDimensionMismatch on ragged points, len(assign) != len(points) or a
//     negative cluster index.
//
// Complexity: Time O(n²·d), Space O(k).
func Silhouette(points [][]float64, assign []int) (float64, error) {
	if len(assign) != len(points) {
		return 0, ErrDimensionMismatch
	}
	if err := validatePoints(points); err != nil {
		return 0, err
	}
	k := 0
	for _, c := range assign {
		if c < 0 {
			return 0, ErrDimensionMismatch
		}
		if c+1 > k {
			k = c + 1
		}
	}
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}

	return silhouette(points, assign, k, idx), nil
}

// silhouette averages the coefficient of the points listed in sample, each
// measured against every point.
func silhouette(points [][]float64, assign []int, k int, sample []int) float64 {
	if len(sample) == 0 {
		return 0
	}
	sums := make([]float64, k)
	counts := make([]int, k)
	total := 0.0
	for _, i := range sample {
		for c := range sums {
			sums[c], counts[c] = 0, 0
		}
		for j, q := range points {
			c := assign[j]
			counts[c]++
			if j != i {
				sums[c] += math.Sqrt(sqDist(points[i], q))
			}
		}
		own := assign[i]
		if counts[own] <= 1 {
			continue
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := range sums {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if den := math.Max(a, b); den > 0 {
			total += (b - a) / den
		}
	}

	return total / float64(len(sample))
}
