// SPDX-License-Identifier: MIT

package cluster

import "errors"

var (
	// ErrNilProjection indicates a nil projection result.
	ErrNilProjection = errors.New("cluster: projection is nil")

	// ErrDimensionMismatch indicates ragged coordinates, a length mismatch
	// between ids and points, or a negative size.
	ErrDimensionMismatch = errors.New("cluster: dimension mismatch")

	// ErrBadGroupRange indicates MinGroups < 1 or MaxGroups < MinGroups.
	ErrBadGroupRange = errors.New("cluster: invalid group count range")

	// ErrBadMinGroupSize indicates MinGroupSize < 1.
	ErrBadMinGroupSize = errors.New("cluster: min group size must be >= 1")

	// ErrBadRestarts indicates Restarts < 1.
	ErrBadRestarts = errors.New("cluster: restarts must be >= 1")

	// ErrBadIterations indicates MaxIterations < 1.
	ErrBadIterations = errors.New("cluster: max iterations must be >= 1")

	// ErrBadK indicates a k-means run with k < 1 or k greater than the number
	// of distinct points.
	ErrBadK = errors.New("cluster: k must be between 1 and the number of distinct points")
)
