// SPDX-License-Identifier: MIT

package repness

import "errors"

var (
	// ErrNilMatrix indicates a nil rating matrix.
	ErrNilMatrix = errors.New("repness: rating matrix is nil")

	// ErrBadMinVotes indicates MinVotes < 1.
	ErrBadMinVotes = errors.New("repness: min votes must be >= 1")

	// ErrBadThreshold indicates a non-positive or non-finite z threshold.
	ErrBadThreshold = errors.New("repness: z threshold must be a positive finite number")

	// ErrBadMaxPerGroup indicates a negative per-group cap.
	ErrBadMaxPerGroup = errors.New("repness: max per group must be >= 0")

	// ErrBadConsensus indicates a consensus threshold outside [0, 1).
	ErrBadConsensus = errors.New("repness: consensus threshold must be in [0, 1)")
)
