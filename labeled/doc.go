// SPDX-License-Identifier: MIT

// Package labeled provides a growable two-dimensional container indexed by
// stable row and column identifiers.
//
// A labeled.Matrix maps arbitrary comparable ids (participants × statements
// in the engine) to dense integer indices in first-use order:
//
//	id → index   : map lookup, O(1)
//	index → id   : slice lookup, O(1)
//
// Indices are append-only: they never shrink and never reorder, so an index
// handed out once stays valid for the lifetime of the matrix. Cells are
// either set (hold a value) or unset; reading an unknown id is not an error
// and simply reports "unset".
//
// Concurrency: a Matrix is not safe for concurrent mutation. Callers that
// share one across goroutines must serialize writes, or hand readers a Clone.
package labeled
