// SPDX-License-Identifier: MIT

package pca

import "github.com/katalvlaran/agora/votes"

// Solver names the eigen routine that produced a Result.
type Solver int

const (
	// SolverNone marks a degenerate input for which no solver ran.
	SolverNone Solver = iota
	// SolverPower is power iteration with Hotelling deflation.
	SolverPower
	// SolverJacobi is the full Jacobi eigendecomposition fallback.
	SolverJacobi
)

// String returns the solver name.
func (s Solver) String() string {
	switch s {
	case SolverPower:
		return "power"
	case SolverJacobi:
		return "jacobi"
	default:
		return "none"
	}
}

// Result is one full projection of the rating matrix. It is immutable once
// returned.
//
//   - Statements[j] is the statement of column j of Center and Components.
//   - Components is k × len(Statements); row c is the c-th principal axis.
//   - VarianceExplained is k-length, non-negative and non-increasing.
//   - Participants[i] owns Coordinates[i] (k-length).
type Result struct {
	Statements        []votes.StatementID
	Center            []float64
	Components        [][]float64
	VarianceExplained []float64
	TotalVariance     float64
	Participants      []votes.ParticipantID
	Coordinates       [][]float64
	Solver            Solver
	index             map[votes.ParticipantID]int
}

// K returns the number of components.
func (r *Result) K() int { return len(r.VarianceExplained) }

// Of returns the coordinates of participant p.
func (r *Result) Of(p votes.ParticipantID) ([]float64, bool) {
	i, ok := r.index[p]
	if !ok {
		return nil, false
	}

	return r.Coordinates[i], true
}

// ExplainedRatio returns each component's share of the total variance, or
// zeros when the total is 0.
func (r *Result) ExplainedRatio() []float64 {
	out := make([]float64, len(r.VarianceExplained))
	if r.TotalVariance <= 0 {
		return out
	}
	for c, v := range r.VarianceExplained {
		out[c] = v / r.TotalVariance
	}

	return out
}
