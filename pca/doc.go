// SPDX-License-Identifier: MIT

// Package pca projects a sparse rating matrix onto its top principal
// components.
//
// Pipeline:
//
//	ratings ──Dense+mask──▶ X ──masked centering──▶ Xc
//	                          └─sample covariance──▶ C = Xcᵀ Xc / (n-1)
//	C ──power iteration + deflation (fallback: Jacobi)──▶ top-k eigenpairs
//	Xc · Wᵀ ──▶ participant coordinates
//
// Missing votes do not pull the column mean and contribute 0 after
// centering; they are neither imputed nor read as disagreement.
//
// Determinism:
//   - No randomness: fixed start vectors, fixed traversal order.
//   - Each component is signed so that its largest-magnitude entry is
//     positive (lowest index on ties).
//   - Eigenvalues below Tolerance·max(1, λ₁) are reported as 0 with a zero
//     component.
//
// Degenerate input (fewer than 2 participants or fewer than 2 statements)
// yields all-zero coordinates and zero variance; it is not an error.
package pca
