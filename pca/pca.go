// SPDX-License-Identifier: MIT

package pca

import (
	"fmt"
	"math"

	"github.com/katalvlaran/agora/matrix"
	"github.com/katalvlaran/agora/votes"
)

// jacobiRotationsPerCell bounds the fallback solver at n²·jacobiRotationsPerCell rotations.
const jacobiRotationsPerCell = 64

// Project computes the top-k principal components of m and each
// participant's coordinates in that basis.
// Implementation:
//   - Stage 1: validate options; materialize the dense ratings and mask.
//   - Stage 2: masked centering and sample covariance.
//   - Stage 3: top-k eigenpairs by power iteration; on non-convergence retry
//     with the Jacobi decomposition.
//   - Stage 4: project the centered rows onto the components.
//
// Errors:
//   - ErrNilMatrix, ErrBadComponents, ErrBadTolerance, ErrBadIterations.
//   - ErrNoConvergence when both solvers fail.
//
// Complexity: Time O(p·s² + k·iter·s²) for p participants and s statements,
// Space O(p·s + s²).
func Project(m *votes.Matrix, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNilMatrix
	}

	X, mask, err := m.Dense(votes.Float)
	if err != nil {
		return nil, fmt.Errorf("pca: project: %w", err)
	}
	p, s, k := X.Rows(), X.Cols(), o.Components
	res := newResult(m, p, s, k)

	Xc, means, err := matrix.CenterColumnsMasked(X, mask)
	if err != nil {
		return nil, fmt.Errorf("pca: project: %w", err)
	}
	copy(res.Center, means)
	if p < 2 || s < 2 {
		return res, nil
	}

	cov, _, err := matrix.Covariance(X, mask)
	if err != nil {
		return nil, fmt.Errorf("pca: project: %w", err)
	}
	for j := 0; j < s; j++ {
		d, _ := cov.At(j, j)
		res.TotalVariance += d
	}

	values, vectors, solver, err := solve(cov, k, o)
	if err != nil {
		return nil, err
	}
	res.Solver = solver
	for c := 0; c < k; c++ {
		res.VarianceExplained[c] = values[c]
		copy(res.Components[c], vectors[c])
	}

	if err = res.project(Xc, mask, o.SparsityScaling); err != nil {
		return nil, fmt.Errorf("pca: project: %w", err)
	}

	return res, nil
}

// newResult allocates a zero Result sized for p participants, s statements
// and k components.
func newResult(m *votes.Matrix, p, s, k int) *Result {
	res := &Result{
		Statements:        m.ColIDs(),
		Center:            make([]float64, s),
		Components:        make([][]float64, k),
		VarianceExplained: make([]float64, k),
		Participants:      m.RowIDs(),
		Coordinates:       make([][]float64, p),
		index:             make(map[votes.ParticipantID]int, p),
	}
	for c := range res.Components {
		res.Components[c] = make([]float64, s)
	}
	for i, id := range res.Participants {
		res.Coordinates[i] = make([]float64, k)
		res.index[id] = i
	}

	return res
}

// solve returns k eigenpairs of cov, padded with zeros, using the power
// method first and the Jacobi decomposition as a fallback.
func solve(cov *matrix.Dense, k int, o Options) ([]float64, [][]float64, Solver, error) {
	values, vectors, err := matrix.TopEigenpairs(cov, k, o.Tolerance, o.MaxIterations)
	if err == nil {
		return values, vectors, SolverPower, nil
	}

	n := cov.Rows()
	rotations := jacobiRotationsPerCell * n * n
	if rotations < o.MaxIterations {
		rotations = o.MaxIterations
	}
	all, Q, jerr := matrix.Eigen(cov, o.Tolerance, rotations)
	if jerr != nil {
		return nil, nil, SolverNone, fmt.Errorf("%w: power: %v; jacobi: %v", ErrNoConvergence, err, jerr)
	}
	sortedVals, sortedVecs, jerr := matrix.SortEigenpairs(all, Q, o.Tolerance)
	if jerr != nil {
		return nil, nil, SolverNone, fmt.Errorf("%w: %v", ErrNoConvergence, jerr)
	}

	values = make([]float64, k)
	vectors = make([][]float64, k)
	scale := 1.0
	if len(sortedVals) > 0 {
		scale = math.Max(1, sortedVals[0])
	}
	for c := 0; c < k; c++ {
		vectors[c] = make([]float64, n)
		if c >= len(sortedVals) || sortedVals[c] <= o.Tolerance*scale {
			continue
		}
		values[c] = sortedVals[c]
		copy(vectors[c], sortedVecs[c])
	}

	return values, vectors, SolverJacobi, nil
}

// project fills Coordinates = Xc · Componentsᵀ, optionally compensating for
// sparse participants.
func (r *Result) project(Xc *matrix.Dense, mask []bool, sparsity bool) error {
	s, k := Xc.Cols(), len(r.Components)
	flat := make([]float64, 0, k*s)
	for c := 0; c < k; c++ {
		flat = append(flat, r.Components[c]...)
	}
	W, err := matrix.NewDenseFrom(k, s, flat)
	if err != nil {
		return err
	}
	Wt, err := matrix.Transpose(W)
	if err != nil {
		return err
	}
	P, err := matrix.Mul(Xc, Wt)
	if err != nil {
		return err
	}

	for i := range r.Coordinates {
		row, _ := P.RowView(i)
		copy(r.Coordinates[i], row)
		if !sparsity {
			continue
		}
		voted := 0
		for j := 0; j < s; j++ {
			if mask[i*s+j] {
				voted++
			}
		}
		if voted == 0 {
			continue
		}
		f := math.Sqrt(float64(s) / float64(voted))
		for c := range r.Coordinates[i] {
			r.Coordinates[i][c] *= f
		}
	}

	return nil
}
