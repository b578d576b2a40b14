// SPDX-License-Identifier: MIT

package conversation

import "errors"

var (
	// ErrEmptyID indicates an empty conversation id.
	ErrEmptyID = errors.New("conversation: id must not be empty")

	// ErrPipeline indicates a recovered panic inside a pipeline stage.
	ErrPipeline = errors.New("conversation: pipeline failed")

	// ErrDiscarded indicates that a recompute outlived its context; the
	// result, if any, was not published.
	ErrDiscarded = errors.New("conversation: recompute result discarded")
)
