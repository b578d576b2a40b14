// SPDX-License-Identifier: MIT

package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/priority"
	"github.com/katalvlaran/agora/repness"
	"github.com/katalvlaran/agora/votes"
)

// Operation tags for uniform error wrapping.
const (
	opProject      = "project"
	opPartition    = "partition"
	opRepness      = "repness"
	opCorrelations = "correlations"
)

// input is the ledger state one pipeline run reads.
type input struct {
	matrix    *votes.Matrix
	version   uint64
	watermark time.Time
	meta      map[votes.StatementID]struct{}
}

// capture copies the ledger under its mutex.
func (c *Conversation) capture() input {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta := make(map[votes.StatementID]struct{}, len(c.meta))
	for k := range c.meta {
		meta[k] = struct{}{}
	}

	return input{
		matrix:    c.ledger.Snapshot(),
		version:   c.ledger.Version(),
		watermark: c.ledger.Watermark(),
		meta:      meta,
	}
}

// pipeline runs every stage over in and assembles a Snapshot. A panic in
// any stage is recovered into ErrPipeline.
func (c *Conversation) pipeline(ctx context.Context, in input) (snap *Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, fmt.Errorf("%w: %v", ErrPipeline, r)
		}
	}()
	start := time.Now()

	proj, err := pca.Project(in.matrix, c.opts.Projection...)
	if err != nil {
		return nil, stageErrorf(opProject, err)
	}
	clusters, err := cluster.Partition(proj, c.opts.Clustering...)
	if err != nil {
		return nil, stageErrorf(opPartition, err)
	}
	rep, err := repness.Compute(in.matrix, clusters.Groups, c.opts.Repness...)
	if err != nil {
		return nil, stageErrorf(opRepness, err)
	}
	corr, err := repness.ParticipantCorrelations(in.matrix, clusters.Groups)
	if err != nil {
		return nil, stageErrorf(opCorrelations, err)
	}

	return &Snapshot{
		Version:      in.version,
		Watermark:    in.watermark,
		ComputedAt:   time.Now(),
		Elapsed:      time.Since(start),
		Matrix:       in.matrix,
		Projection:   proj,
		Clusters:     clusters,
		Repness:      rep,
		Correlations: corr,
		Priorities:   c.priorities(ctx, in, rep),
	}, nil
}

// priorities scores every statement. External extremity wins when it is
// known and within [0, 1]; otherwise the repness extremity is used.
func (c *Conversation) priorities(ctx context.Context, in input, rep *repness.Result) map[votes.StatementID]int {
	var external map[votes.StatementID]float64
	if c.opts.Extremity != nil && in.matrix.Cols() > 0 {
		var err error
		if external, err = c.opts.Extremity.ExtremityFor(ctx, c.id); err != nil {
			c.log.Warn("extremity source failed, using computed extremity", "err", err)
			external = nil
		}
	}

	counts := votes.CountAll(in.matrix)
	out := make(map[votes.StatementID]int, len(counts))
	for _, sc := range counts {
		stats := priority.Stats{Agree: sc.Agree, Disagree: sc.Disagree, Total: sc.Total}
		e := rep.ExtremityOf(sc.Statement)
		if x, ok := external[sc.Statement]; ok && priority.ValidateInputs(stats.Agree, stats.Pass(), stats.Total, x) {
			e = x
		}
		_, meta := in.meta[sc.Statement]
		out[sc.Statement] = priority.CalculateCommentPriority(stats, e, meta)
	}

	return out
}

// stageErrorf tags a stage failure with the stage name.
func stageErrorf(op string, err error) error {
	return fmt.Errorf("conversation: %s: %w", op, err)
}

// discarded wraps a context error into ErrDiscarded.
func discarded(err error) error {
	return fmt.Errorf("%w: %w", ErrDiscarded, err)
}
