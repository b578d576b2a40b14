// SPDX-License-Identifier: MIT
// Package matrix - spectral routines for symmetric matrices.
//
// Purpose:
//   - Eigen: full Jacobi eigendecomposition (robust, O(n³) per sweep).
//   - PowerIteration / TopEigenpairs: dominant eigenpairs via repeated
//     matrix–vector products with Hotelling deflation (cheap for small k).
//     TopEigenpairs reports ErrEigenFailed when it cannot certify the order.
//   - CanonicalSign / SortEigenpairs: deterministic orientation and ordering
//     so that repeated runs and both solvers agree up to rounding.
//
// Determinism:
//   - Fixed pivot scans, fixed start vectors, no randomness.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and apply a Jacobi rotation.
//   - Stage 3: Read eigenvalues from the diagonal; Q accumulates the rotations.
//
// Inputs:
//   - m: symmetric Matrix (within tol).
//   - tol: convergence threshold on the largest off-diagonal magnitude.
//   - maxIter: cap on the number of rotations.
//
// Returns:
//   - []float64: eigenvalues in diagonal order (unsorted; see SortEigenpairs).
//   - *Dense: Q whose columns are the matching unit eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrEigenFailed.
//
// Complexity: Time O(maxIter · n), pivot scan O(n²) per rotation; Space O(n²).
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	A, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := A.r
	Q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i := 0; i < n; i++ {
		Q.data[i*n+i] = 1.0
	}

	var (
		iter, i, j, p, q int
		maxOff, off      float64
		app, aqq, apq    float64
		aip, aiq         float64
		qip, qiq         float64
		theta, t, c, s   float64
		converged        bool
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: find pivot (p,q) maximizing |A[p,q]|
		maxOff = NormZero
		for i = 0; i < n; i++ {
			base := i * n
			for j = i + 1; j < n; j++ {
				off = math.Abs(A.data[base+j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		// J.2: convergence
		if maxOff < tol {
			converged = true
			break
		}

		// J.3: rotation parameters
		app = A.data[p*n+p]
		aqq = A.data[q*n+q]
		apq = A.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.4: rotate rows/cols p and q
		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip = A.data[i*n+p]
			aiq = A.data[i*n+q]
			A.data[i*n+p] = c*aip - s*aiq
			A.data[p*n+i] = A.data[i*n+p]
			A.data[i*n+q] = s*aip + c*aiq
			A.data[q*n+i] = A.data[i*n+q]
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0

		// J.5: accumulate into Q
		for i = 0; i < n; i++ {
			qip = Q.data[i*n+p]
			qiq = Q.data[i*n+q]
			Q.data[i*n+p] = c*qip - s*qiq
			Q.data[i*n+q] = s*qip + c*qiq
		}
	}
	if !converged {
		// the last rotation may have landed exactly on tolerance
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				maxOff = math.Max(maxOff, math.Abs(A.data[i*n+j]))
			}
		}
		if maxOff >= tol {
			return nil, nil, matrixErrorf(opEigen, fmt.Errorf("%d rotations: %w", maxIter, ErrEigenFailed))
		}
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = A.data[i*n+i]
	}

	return eigs, Q, nil
}

// PowerIteration approximates the dominant eigenpair of a symmetric positive
// semi-definite matrix starting from v0.
// Implementation:
//   - Stage 1: normalize v0; a zero start vector means "no signal" (λ=0, v=0).
//   - Stage 2: iterate w = A·v, v' = w/‖w‖ until ‖v'−v‖ < tol.
//   - Stage 3: λ is the Rayleigh quotient vᵀAv; v is canonically signed.
//
// Behavior highlights:
//   - ‖A·v‖ ≤ zeroTol is treated as a null direction and returns (0, zero vector, nil).
//
// Errors:
//   - ErrNonSquare, ErrDimensionMismatch (len(v0) != n), ErrEigenFailed (maxIter reached).
//
// Complexity: Time O(maxIter · n²), Space O(n).
func PowerIteration(m Matrix, v0 []float64, tol, zeroTol float64, maxIter int) (float64, []float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, nil, matrixErrorf(opPowerIteration, err)
	}
	n := m.Rows()
	if err := ValidateVecLen(v0, n); err != nil {
		return 0, nil, matrixErrorf(opPowerIteration, err)
	}

	v := make([]float64, n)
	norm := Norm2(v0)
	if norm <= zeroTol {
		return 0, v, nil
	}
	for i := range v0 {
		v[i] = v0[i] / norm
	}

	var (
		w     []float64
		err   error
		delta float64
		i     int
	)
	for iter := 0; iter < maxIter; iter++ {
		if w, err = MatVec(m, v); err != nil {
			return 0, nil, matrixErrorf(opPowerIteration, err)
		}
		norm = Norm2(w)
		if norm <= zeroTol {
			return 0, make([]float64, n), nil
		}
		delta = ZeroSum
		for i = range w {
			w[i] /= norm
			d := w[i] - v[i]
			delta += d * d
		}
		v = w
		if math.Sqrt(delta) < tol {
			CanonicalSign(v)
			w, err = MatVec(m, v)
			if err != nil {
				return 0, nil, matrixErrorf(opPowerIteration, err)
			}
			lambda, _ := Dot(v, w)

			return lambda, v, nil
		}
	}

	return 0, nil, matrixErrorf(opPowerIteration, fmt.Errorf("%d iterations: %w", maxIter, ErrEigenFailed))
}

// TopEigenpairs returns the k dominant eigenpairs of a symmetric PSD matrix
// using PowerIteration with Hotelling deflation (A ← A − λ·v·vᵀ).
// Implementation:
//   - Stage 1: each pair starts from StartVector of the original matrix. A
//     symmetric matrix has λ_max ≥ max diagonal, so a result below the largest
//     deflated diagonal is retried from that diagonal's column.
//   - Stage 2: reject the run when a pair stays below the diagonal, when a
//     later eigenvalue exceeds an earlier one, or when the final deflated
//     matrix keeps a diagonal entry above λₖ.
//   - Stage 3: order the pairs with the SortEigenpairs rule.
//
// Eigenvalues below tol·max(1, λ₁) are reported as 0 with a zero vector.
//
// Errors:
//   - ErrNonSquare, ErrEigenFailed (non-convergence or a missed component).
//
// Complexity: Time O(k · maxIter · n²), Space O(n²).
func TopEigenpairs(m Matrix, k int, tol float64, maxIter int) ([]float64, [][]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opPowerIteration, err)
	}
	A, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opPowerIteration, err)
	}
	n := A.r
	values := make([]float64, k)
	vectors := make([][]float64, k)
	for idx := range vectors {
		vectors[idx] = make([]float64, n)
	}
	if n == 0 {
		return values, vectors, nil
	}

	start := StartVector(A)
	scale := 1.0
	found := 0
	for idx := 0; idx < k; idx++ {
		zeroTol := tol * scale
		jStar, diag := maxDiagonal(A)
		if jStar < 0 || diag <= zeroTol {
			break // remaining spectrum is (numerically) zero
		}
		lambda, v, err := PowerIteration(A, start, tol, zeroTol, maxIter)
		if err != nil {
			return nil, nil, err
		}
		if lambda < diag-zeroTol {
			v0, _ := A.Col(jStar)
			if lambda, v, err = PowerIteration(A, v0, tol, zeroTol, maxIter); err != nil {
				return nil, nil, err
			}
		}
		if lambda < diag-zeroTol {
			return nil, nil, matrixErrorf(opPowerIteration,
				fmt.Errorf("pair %d: λ=%g below diagonal %g: %w", idx, lambda, diag, ErrEigenFailed))
		}
		if idx == 0 {
			scale = math.Max(1, lambda)
		}
		if lambda <= tol*scale {
			break
		}
		if idx > 0 && lambda > values[idx-1]+tol*scale {
			return nil, nil, matrixErrorf(opPowerIteration,
				fmt.Errorf("pair %d: λ=%g above previous λ=%g: %w", idx, lambda, values[idx-1], ErrEigenFailed))
		}
		values[idx] = lambda
		copy(vectors[idx], v)
		found++

		// deflate
		for i := 0; i < n; i++ {
			if v[i] == 0 {
				continue
			}
			base := i * n
			for j := 0; j < n; j++ {
				A.data[base+j] -= lambda * v[i] * v[j]
			}
		}
	}
	if found == k && k > 0 {
		if _, diag := maxDiagonal(A); diag > values[k-1]+tol*scale {
			return nil, nil, matrixErrorf(opPowerIteration,
				fmt.Errorf("residual diagonal %g above λ=%g: %w", diag, values[k-1], ErrEigenFailed))
		}
	}

	values, vectors = orderPairs(values, vectors, tol*scale)

	return values, vectors, nil
}

// StartVector returns the deterministic power-iteration start for a square
// matrix: its normalized row sums plus the descending ramp (n−i)/n. The ramp
// keeps the vector dense when the row sums cancel, and favors lower columns
// inside a repeated eigenvalue.
func StartVector(a *Dense) []float64 {
	n := a.r
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		base := i * a.c
		for j := 0; j < a.c; j++ {
			v[i] += a.data[base+j]
		}
	}
	norm := Norm2(v)
	for i := range v {
		if norm > 0 {
			v[i] /= norm
		}
		v[i] += float64(n-i) / float64(n)
	}

	return v
}

// maxDiagonal returns the index and value of the largest diagonal entry
// (lowest index on ties), or -1 when every entry is ≤ 0.
func maxDiagonal(a *Dense) (int, float64) {
	jStar, diag := -1, NormZero
	for j := 0; j < a.r; j++ {
		if d := a.data[j*a.c+j]; d > diag {
			jStar, diag = j, d
		}
	}

	return jStar, diag
}

// CanonicalSign flips v in place so that its largest-magnitude entry is
// positive; ties resolve to the lowest index. A zero vector is left as is.
func CanonicalSign(v []float64) {
	idx := DominantIndex(v)
	if idx < 0 || v[idx] >= 0 {
		return
	}
	for i := range v {
		v[i] = -v[i]
	}
}

// DominantIndex returns the index of the largest |v[i]| (lowest index on
// ties), or -1 for an all-zero vector.
func DominantIndex(v []float64) int {
	idx, best := -1, NormZero
	for i, x := range v {
		if a := math.Abs(x); a > best {
			idx, best = i, a
		}
	}

	return idx
}

// SortEigenpairs orders eigenvalues descending and returns the matching
// columns of Q as canonically signed vectors. Eigenvalues within tol of each
// other are ordered by the lower DominantIndex of their eigenvector, which
// keeps the chosen subspace tied to the original column ordering.
//
// Complexity: O(n² + n log n).
func SortEigenpairs(values []float64, Q *Dense, tol float64) ([]float64, [][]float64, error) {
	if Q == nil {
		return nil, nil, ErrNilMatrix
	}
	n := len(values)
	if Q.r != n || Q.c != n {
		return nil, nil, ErrDimensionMismatch
	}
	vecs := make([][]float64, n)
	for j := 0; j < n; j++ {
		vecs[j], _ = Q.Col(j)
		CanonicalSign(vecs[j])
	}
	outVals, outVecs := orderPairs(values, vecs, tol)

	return outVals, outVecs, nil
}

// orderPairs sorts eigenpairs by descending eigenvalue; values within tol
// order by the lower DominantIndex of their vector. Zero vectors sort last
// among equal values.
func orderPairs(values []float64, vecs [][]float64, tol float64) ([]float64, [][]float64) {
	n := len(values)
	dom := make([]int, n)
	for j := range vecs {
		dom[j] = DominantIndex(vecs[j])
		if dom[j] < 0 {
			dom[j] = math.MaxInt
		}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := values[order[a]], values[order[b]]
		if math.Abs(va-vb) <= tol {
			return dom[order[a]] < dom[order[b]]
		}

		return va > vb
	})

	outVals := make([]float64, n)
	outVecs := make([][]float64, n)
	for i, o := range order {
		outVals[i] = values[o]
		outVecs[i] = vecs[o]
	}

	return outVals, outVecs
}
