// SPDX-License-Identifier: MIT

package pca

import "errors"

var (
	// ErrNilMatrix indicates a nil rating matrix.
	ErrNilMatrix = errors.New("pca: rating matrix is nil")

	// ErrBadComponents indicates a non-positive component count.
	ErrBadComponents = errors.New("pca: components must be >= 1")

	// ErrBadTolerance indicates a non-positive or non-finite tolerance.
	ErrBadTolerance = errors.New("pca: tolerance must be a positive finite number")

	// ErrBadIterations indicates a non-positive iteration budget.
	ErrBadIterations = errors.New("pca: max iterations must be >= 1")

	// ErrNoConvergence indicates that both the iterative solver and the
	// Jacobi fallback failed.
	ErrNoConvergence = errors.New("pca: eigen solvers did not converge")
)
