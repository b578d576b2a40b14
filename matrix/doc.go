// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels used by the
// conversation analysis engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and a flat
//     backing buffer for cache-friendly fast paths.
//   - Canonical kernels: Mul, Transpose, MatVec, Scale, Hadamard, RowSums.
//   - Spectral routines for symmetric matrices: Jacobi Eigen (full
//     decomposition) and PowerIteration with Hotelling deflation (top-k).
//   - Masked statistics for sparse rating data: MaskedColumnMeans,
//     CenterColumnsMasked and Covariance.
//
// Determinism:
//
//	Every kernel walks its data in a fixed i→j (or i→k→j) order and uses no
//	randomness, so identical inputs always produce bit-identical outputs.
//
// Errors are package-level sentinels (errors.go) wrapped with the operation
// name; match them with errors.Is.
package matrix
