// SPDX-License-Identifier: MIT

package pca

import "math"

// Defaults used by DefaultOptions.
const (
	DefaultComponents    = 2
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 1000
)

// Options configures Project.
//
//   - Components      number of principal components k (default 2).
//   - Tolerance       power-iteration convergence threshold and relative
//     zero-eigenvalue cutoff (default 1e-9).
//   - MaxIterations   power-iteration budget per component (default 1000).
//   - SparsityScaling scale each participant's coordinates by
//     sqrt(statements / statements voted on), so that participants who voted
//     on few statements are not pulled toward the origin (default off).
type Options struct {
	Components      int
	Tolerance       float64
	MaxIterations   int
	SparsityScaling bool
}

// Option is a functional option for Project.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Components:    DefaultComponents,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// WithComponents sets k.
func WithComponents(k int) Option {
	return func(o *Options) { o.Components = k }
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxIterations sets the power-iteration budget.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithSparsityScaling enables participant sparsity compensation.
func WithSparsityScaling() Option {
	return func(o *Options) { o.SparsityScaling = true }
}

func (o Options) validate() error {
	if o.Components < 1 {
		return ErrBadComponents
	}
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0) {
		return ErrBadTolerance
	}
	if o.MaxIterations < 1 {
		return ErrBadIterations
	}

	return nil
}
