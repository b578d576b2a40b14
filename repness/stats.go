// SPDX-License-Identifier: MIT

package repness

import "math"

// SmoothedRate returns the Laplace-smoothed rate (count+1)/(total+2).
func SmoothedRate(count, total int) float64 {
	return float64(count+1) / float64(total+2)
}

// TwoPropZ returns the z statistic comparing the smoothed rates of
// (x1 of n1) and (x2 of n2) under a pooled variance. A zero variance yields 0.
func TwoPropZ(x1, n1, x2, n2 int) float64 {
	sx1, sn1 := float64(x1+1), float64(n1+2)
	sx2, sn2 := float64(x2+1), float64(n2+2)
	p1, p2 := sx1/sn1, sx2/sn2
	p := (sx1 + sx2) / (sn1 + sn2)
	v := p * (1 - p) * (1/sn1 + 1/sn2)
	if v <= 0 {
		return 0
	}

	return (p1 - p2) / math.Sqrt(v)
}

// PValue returns the one-sided upper-tail probability of z under the
// standard normal.
func PValue(z float64) float64 {
	return 0.5 * math.Erfc(z/math.Sqrt2)
}
