// SPDX-License-Identifier: MIT

package repness

import "math"

// Defaults used by DefaultOptions.
const (
	DefaultMinVotes           = 3
	DefaultZThreshold         = 1.2816 // one-sided 90 %
	DefaultConsensusThreshold = 0.5
)

// Options configures Compute.
//
//   - MinVotes            group votes required before a pair is tested (default 3).
//   - ZThreshold          significance cutoff on z (default 1.2816).
//   - MaxPerGroup         cap on representative statements per group; 0 = unlimited.
//   - ConsensusThreshold  overall smoothed agree rate a consensus statement
//     must exceed (default 0.5).
type Options struct {
	MinVotes           int
	ZThreshold         float64
	MaxPerGroup        int
	ConsensusThreshold float64
}

// Option is a functional option for Compute.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MinVotes:           DefaultMinVotes,
		ZThreshold:         DefaultZThreshold,
		ConsensusThreshold: DefaultConsensusThreshold,
	}
}

// WithMinVotes sets the minimum group vote count.
func WithMinVotes(n int) Option {
	return func(o *Options) { o.MinVotes = n }
}

// WithZThreshold sets the significance cutoff.
func WithZThreshold(z float64) Option {
	return func(o *Options) { o.ZThreshold = z }
}

// WithMaxPerGroup caps the representative list of each group.
func WithMaxPerGroup(n int) Option {
	return func(o *Options) { o.MaxPerGroup = n }
}

// WithConsensusThreshold sets the consensus agree-rate floor.
func WithConsensusThreshold(t float64) Option {
	return func(o *Options) { o.ConsensusThreshold = t }
}

func (o Options) validate() error {
	if o.MinVotes < 1 {
		return ErrBadMinVotes
	}
	if !(o.ZThreshold > 0) || math.IsInf(o.ZThreshold, 0) {
		return ErrBadThreshold
	}
	if o.MaxPerGroup < 0 {
		return ErrBadMaxPerGroup
	}
	if !(o.ConsensusThreshold >= 0 && o.ConsensusThreshold < 1) {
		return ErrBadConsensus
	}

	return nil
}
