// SPDX-License-Identifier: MIT

package priority

import "math"

// MetaPriority is the fixed pre-square priority of meta statements.
const MetaPriority = 7.0

// Stats are the vote counts on one statement.
type Stats struct {
	Agree    int
	Disagree int
	Total    int
}

// Pass returns max(0, Total - Agree - Disagree).
func (s Stats) Pass() int {
	if p := s.Total - s.Agree - s.Disagree; p > 0 {
		return p
	}

	return 0
}

// ValidateInputs reports whether (agree, pass, total, extremity) is a
// consistent input: all counts non-negative, agree+pass <= total and
// extremity within [0, 1].
func ValidateInputs(agree, pass, total int, extremity float64) bool {
	if agree < 0 || pass < 0 || total < 0 {
		return false
	}
	if agree+pass > total {
		return false
	}
	if math.IsNaN(extremity) || extremity < 0 || extremity > 1 {
		return false
	}

	return true
}

// PassRate returns the smoothed pass rate (P+1)/(S+2).
func PassRate(pass, total int) float64 {
	return float64(pass+1) / float64(total+2)
}

// AgreeRate returns the smoothed agree rate (A+1)/(S+2).
func AgreeRate(agree, total int) float64 {
	return float64(agree+1) / float64(total+2)
}

// Importance returns (1-p)·(E+1)·a.
func Importance(p, a, extremity float64) float64 {
	return (1 - p) * (extremity + 1) * a
}

// ScalingFactor returns 1 + 8·2^(-S/5).
func ScalingFactor(total int) float64 {
	return 1 + 8*math.Pow(2, -float64(total)/5)
}

// PriorityMetric returns the untruncated priority. For meta statements it is
// MetaPriority² regardless of the counts.
func PriorityMetric(isMeta bool, agree, pass, total int, extremity float64) float64 {
	if isMeta {
		return MetaPriority * MetaPriority
	}
	imp := Importance(PassRate(pass, total), AgreeRate(agree, total), extremity)
	v := imp * ScalingFactor(total)

	return v * v
}

// CalculateCommentPriority returns the integer priority of one statement,
// truncated toward zero.
func CalculateCommentPriority(stats Stats, extremity float64, isMeta bool) int {
	return int(PriorityMetric(isMeta, stats.Agree, stats.Pass(), stats.Total, extremity))
}
