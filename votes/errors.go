// SPDX-License-Identifier: MIT

package votes

import "errors"

var (
	// ErrInvalidValue indicates a vote value outside {-1, 0, +1}.
	ErrInvalidValue = errors.New("votes: value must be -1, 0 or +1")
)
