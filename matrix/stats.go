// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide masked statistical transforms for sparse rating data, where a
//     cell is either observed (a real value) or missing.
//   - MaskedColumnMeans(X, mask)   -> (means, counts)   // mean over observed cells only
//   - CenterColumnsMasked(X, mask) -> (Xc, means)       // v-mean on observed cells, 0 elsewhere
//   - Covariance(X, mask)          -> (Cov, means)      // (Xcᵀ Xc)/(r-1) over the masked centering
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops; flat-buffer access on *Dense.
//   - A nil mask means "every cell observed".
//
// Notes:
//   - Missing cells never pull the column mean and contribute 0 after
//     centering: no imputation, no implied disagreement.

package matrix

// MaskedColumnMeans returns, per column j, the mean of X[i,j] over rows with
// mask[i*c+j] == true, and the number of such rows. Columns without any
// observation have mean 0 and count 0.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (mask length).
//
// Complexity: Time O(r*c), Space O(c).
func MaskedColumnMeans(X *Dense, mask []bool) ([]float64, []int, error) {
	if X == nil {
		return nil, nil, matrixErrorf(opColumnMeans, ErrNilMatrix)
	}
	r, c := X.r, X.c
	if mask != nil {
		if err := ValidateMask(mask, r, c); err != nil {
			return nil, nil, matrixErrorf(opColumnMeans, err)
		}
	}
	means := make([]float64, c)
	counts := make([]int, c)

	var i, j, k int
	for i = 0; i < r; i++ {
		base := i * c
		for j = 0; j < c; j++ {
			k = base + j
			if mask != nil && !mask[k] {
				continue
			}
			means[j] += X.data[k]
			counts[j]++
		}
	}
	for j = 0; j < c; j++ {
		if counts[j] > 0 {
			means[j] /= float64(counts[j])
		}
	}

	return means, counts, nil
}

// CenterColumnsMasked subtracts the masked column mean from every observed
// cell and writes 0 into unobserved cells. The input is not mutated.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (mask length).
//
// Complexity: Time O(r*c), Space O(r*c).
func CenterColumnsMasked(X *Dense, mask []bool) (*Dense, []float64, error) {
	means, _, err := MaskedColumnMeans(X, mask)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	r, c := X.r, X.c
	out, err := NewDense(r, c)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	var i, j, k int
	for i = 0; i < r; i++ {
		base := i * c
		for j = 0; j < c; j++ {
			k = base + j
			if mask != nil && !mask[k] {
				continue // stays 0
			}
			out.data[k] = X.data[k] - means[j]
		}
	}

	return out, means, nil
}

// Covariance computes the sample covariance of columns over the masked
// centering: Cov = (Xcᵀ Xc)/(r-1).
// Implementation:
//   - Stage 1: Validate X, require r>=2 when c>0 (sample denominator).
//   - Stage 2: Center columns once (CenterColumnsMasked).
//   - Stage 3: Cov = Transpose(Xc) × Xc, scaled by 1/(r-1).
//
// Behavior highlights:
//   - Symmetric output (both triangles are computed with the same products in
//     the same order, so they are bit-identical).
//   - c == 0 yields a 0×0 covariance.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r<2 or bad mask).
//
// Complexity: Time O(r*c²), Space O(r*c + c²).
func Covariance(X *Dense, mask []bool) (*Dense, []float64, error) {
	if X == nil {
		return nil, nil, matrixErrorf(opCovariance, ErrNilMatrix)
	}
	r, c := X.r, X.c
	if c == 0 {
		z, _ := NewDense(0, 0)
		return z, []float64{}, nil
	}
	if r < 2 {
		return nil, nil, matrixErrorf(opCovariance, ErrDimensionMismatch)
	}

	Xc, means, err := CenterColumnsMasked(X, mask)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Xct, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	G, err := Mul(Xct, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	cov, err := Scale(G, 1.0/float64(r-1))
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return cov, means, nil
}
