// SPDX-License-Identifier: MIT

package worker

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/agora/conversation"
)

const (
	// DefaultInterval is the time between rounds of Run.
	DefaultInterval = 5 * time.Second
	// DefaultConcurrency bounds the conversations synced in parallel.
	DefaultConcurrency = 4
	// DefaultPageSize is the number of votes read per query.
	DefaultPageSize = 5000
	// DefaultRecomputeInterval is the minimum spacing of recomputes of one
	// conversation.
	DefaultRecomputeInterval = 2 * time.Second
	// DefaultRecomputeTimeout bounds a single recompute.
	DefaultRecomputeTimeout = 30 * time.Second
)

// Options configures a Worker.
type Options struct {
	Interval          time.Duration
	Concurrency       int
	PageSize          int
	RecomputeInterval time.Duration // 0 disables throttling
	RecomputeTimeout  time.Duration
	Logger            *log.Logger
	Conversation      []conversation.Option
}

// Option is a functional option for New.
type Option func(*Options)

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		Interval:          DefaultInterval,
		Concurrency:       DefaultConcurrency,
		PageSize:          DefaultPageSize,
		RecomputeInterval: DefaultRecomputeInterval,
		RecomputeTimeout:  DefaultRecomputeTimeout,
	}
}

// WithInterval sets the time between rounds.
func WithInterval(d time.Duration) Option {
	return func(o *Options) { o.Interval = d }
}

// WithConcurrency sets how many conversations sync in parallel.
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// WithPageSize sets the number of votes read per query.
func WithPageSize(n int) Option {
	return func(o *Options) { o.PageSize = n }
}

// WithRecomputeInterval sets the minimum spacing of recomputes of one
// conversation; 0 recomputes on every round that saw new votes.
func WithRecomputeInterval(d time.Duration) Option {
	return func(o *Options) { o.RecomputeInterval = d }
}

// WithRecomputeTimeout bounds a single recompute.
func WithRecomputeTimeout(d time.Duration) Option {
	return func(o *Options) { o.RecomputeTimeout = d }
}

// WithLogger sets the structured logger, also passed to each conversation.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithConversationOptions adds options applied to every conversation the
// worker creates. The conversation id and logger are always set by the
// worker.
func WithConversationOptions(opts ...conversation.Option) Option {
	return func(o *Options) { o.Conversation = append(o.Conversation, opts...) }
}

func (o Options) validate() error {
	if o.Interval <= 0 || o.RecomputeInterval < 0 {
		return ErrBadInterval
	}
	if o.Concurrency < 1 {
		return ErrBadConcurrency
	}
	if o.PageSize < 1 {
		return ErrBadPageSize
	}
	if o.RecomputeTimeout <= 0 {
		return ErrBadTimeout
	}

	return nil
}
