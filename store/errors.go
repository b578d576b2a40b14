// SPDX-License-Identifier: MIT

package store

import "errors"

var (
	// ErrEmptyConversation indicates an empty conversation id.
	ErrEmptyConversation = errors.New("store: conversation id must not be empty")

	// ErrBadLimit indicates a non-positive page size.
	ErrBadLimit = errors.New("store: limit must be positive")

	// ErrInvalidValue indicates a vote value outside {-1, 0, +1}.
	ErrInvalidValue = errors.New("store: invalid vote value")

	// ErrBadExtremity indicates an extremity outside [0, 1] or not finite.
	ErrBadExtremity = errors.New("store: extremity must be in [0, 1]")
)
