// SPDX-License-Identifier: MIT

package worker

import "errors"

var (
	// ErrNilSource indicates a missing vote source.
	ErrNilSource = errors.New("worker: source must not be nil")

	// ErrBadConcurrency indicates a concurrency limit below 1.
	ErrBadConcurrency = errors.New("worker: concurrency must be >= 1")

	// ErrBadPageSize indicates a page size below 1.
	ErrBadPageSize = errors.New("worker: page size must be >= 1")

	// ErrBadInterval indicates a non-positive round interval or a negative
	// recompute interval.
	ErrBadInterval = errors.New("worker: invalid interval")

	// ErrBadTimeout indicates a non-positive recompute timeout.
	ErrBadTimeout = errors.New("worker: recompute timeout must be > 0")
)
