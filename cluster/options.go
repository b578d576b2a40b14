// SPDX-License-Identifier: MIT

package cluster

// Defaults used by DefaultOptions.
const (
	DefaultMinGroups        = 2
	DefaultMaxGroups        = 5
	DefaultMinGroupSize     = 3
	DefaultRestarts         = 8
	DefaultMaxIterations    = 100
	DefaultSilhouetteSample = 2000
)

// Options configures Partition and Cluster.
//
//   - MinGroups, MaxGroups  candidate k range (default 2..5).
//   - MinGroupSize          clusters below this size are discarded (default 3).
//   - Restarts              k-means restarts per candidate (default 8).
//   - MaxIterations         Lloyd iterations per restart (default 100).
//   - Seed                  RNG seed; 0 selects a fixed default stream.
//   - SilhouetteSample      silhouette is averaged over at most this many
//     points, chosen deterministically (default 2000; <= 0 means all).
type Options struct {
	MinGroups        int
	MaxGroups        int
	MinGroupSize     int
	Restarts         int
	MaxIterations    int
	Seed             int64
	SilhouetteSample int
}

// Option is a functional option for Partition and Cluster.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MinGroups:        DefaultMinGroups,
		MaxGroups:        DefaultMaxGroups,
		MinGroupSize:     DefaultMinGroupSize,
		Restarts:         DefaultRestarts,
		MaxIterations:    DefaultMaxIterations,
		SilhouetteSample: DefaultSilhouetteSample,
	}
}

// WithGroupRange sets the candidate k range.
func WithGroupRange(minGroups, maxGroups int) Option {
	return func(o *Options) {
		o.MinGroups = minGroups
		o.MaxGroups = maxGroups
	}
}

// WithMinGroupSize sets the smallest cluster that is reported as a group.
func WithMinGroupSize(n int) Option {
	return func(o *Options) { o.MinGroupSize = n }
}

// WithRestarts sets the number of k-means restarts per candidate.
func WithRestarts(n int) Option {
	return func(o *Options) { o.Restarts = n }
}

// WithMaxIterations sets the Lloyd iteration budget.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithSeed sets the RNG seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithSilhouetteSample caps the number of points scored by the silhouette.
func WithSilhouetteSample(n int) Option {
	return func(o *Options) { o.SilhouetteSample = n }
}

func (o Options) validate() error {
	if o.MinGroups < 1 || o.MaxGroups < o.MinGroups {
		return ErrBadGroupRange
	}
	if o.MinGroupSize < 1 {
		return ErrBadMinGroupSize
	}
	if o.Restarts < 1 {
		return ErrBadRestarts
	}
	if o.MaxIterations < 1 {
		return ErrBadIterations
	}

	return nil
}
