// SPDX-License-Identifier: MIT

package conversation

import (
	"github.com/charmbracelet/log"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/repness"
	"github.com/katalvlaran/agora/votes"
)

// Options configures New. The zero value of every field selects the default.
type Options struct {
	ID         string
	Logger     *log.Logger
	Projection []pca.Option
	Clustering []cluster.Option
	Repness    []repness.Option
	Extremity  ExtremitySource
	Meta       []votes.StatementID
	idExplicit bool
}

// Option is a functional option for New.
type Option func(*Options)

// WithID sets the conversation id. Without it a random UUID is used.
func WithID(id string) Option {
	return func(o *Options) {
		o.ID = id
		o.idExplicit = true
	}
}

// WithLogger sets the structured logger. Without it nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithProjectionOptions forwards options to pca.Project.
func WithProjectionOptions(opts ...pca.Option) Option {
	return func(o *Options) { o.Projection = append(o.Projection, opts...) }
}

// WithClusterOptions forwards options to cluster.Partition.
func WithClusterOptions(opts ...cluster.Option) Option {
	return func(o *Options) { o.Clustering = append(o.Clustering, opts...) }
}

// WithRepnessOptions forwards options to repness.Compute.
func WithRepnessOptions(opts ...repness.Option) Option {
	return func(o *Options) { o.Repness = append(o.Repness, opts...) }
}

// WithExtremitySource sets the external extremity provider.
func WithExtremitySource(src ExtremitySource) Option {
	return func(o *Options) { o.Extremity = src }
}

// WithMetaStatements marks statements that bypass the priority formula.
func WithMetaStatements(ids ...votes.StatementID) Option {
	return func(o *Options) { o.Meta = append(o.Meta, ids...) }
}
