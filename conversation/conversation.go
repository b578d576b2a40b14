// SPDX-License-Identifier: MIT

package conversation

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/repness"
	"github.com/katalvlaran/agora/votes"
)

// Conversation is the analysis state of one deliberation.
type Conversation struct {
	id   string
	log  *log.Logger
	opts Options

	mu     sync.Mutex // guards ledger and meta
	ledger *votes.Ledger
	meta   map[votes.StatementID]struct{}

	computing chan struct{} // one-slot semaphore: at most one pipeline
	snap      atomic.Pointer[Snapshot]
}

// New returns an empty Conversation and publishes the snapshot of the empty
// ledger. Invalid stage options surface here as errors.
func New(opts ...Option) (*Conversation, error) {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.idExplicit && o.ID == "" {
		return nil, ErrEmptyID
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	c := &Conversation{
		id:        o.ID,
		log:       o.Logger.With("conversation", o.ID),
		opts:      o,
		ledger:    votes.NewLedger(),
		meta:      make(map[votes.StatementID]struct{}, len(o.Meta)),
		computing: make(chan struct{}, 1),
	}
	for _, s := range o.Meta {
		c.meta[s] = struct{}{}
	}

	snap, err := c.pipeline(context.Background(), c.capture())
	if err != nil {
		return nil, err
	}
	c.snap.Store(snap)

	return c, nil
}

// ID returns the conversation id.
func (c *Conversation) ID() string { return c.id }

// UpdateVotes folds batch into the ledger, advances the watermark and, when
// recompute is true, runs the pipeline before returning. Malformed votes are
// reported in the returned Report and skipped.
//
// The returned error is non-nil only when recompute is true and the
// pipeline failed; the votes are applied either way.
func (c *Conversation) UpdateVotes(batch []votes.Vote, watermark time.Time, recompute bool) (votes.Report, error) {
	c.mu.Lock()
	rep := c.ledger.Apply(batch, watermark)
	version := c.ledger.Version()
	c.mu.Unlock()

	if n := len(rep.Rejected); n > 0 {
		c.log.Warn("rejected votes", "count", n, "first", rep.Rejected[0].Err)
	}
	c.log.Debug("votes applied",
		"accepted", rep.Accepted, "unchanged", rep.Unchanged, "stale", rep.Stale, "version", version)

	if !recompute {
		return rep, nil
	}
	_, err := c.Recompute()

	return rep, err
}

// AddParticipants registers participants that have not voted yet and
// returns how many were new.
func (c *Conversation) AddParticipants(ids ...votes.ParticipantID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledger.Register(ids...)
}

// MarkMeta flags statements as meta for subsequent priority computations.
func (c *Conversation) MarkMeta(ids ...votes.StatementID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range ids {
		c.meta[s] = struct{}{}
	}
}

// SetMeta replaces the meta flags with ids; no ids clears them.
func (c *Conversation) SetMeta(ids ...votes.StatementID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta = make(map[votes.StatementID]struct{}, len(ids))
	for _, s := range ids {
		c.meta[s] = struct{}{}
	}
}

// Recompute runs the pipeline without a deadline.
func (c *Conversation) Recompute() (*Snapshot, error) {
	return c.RecomputeContext(context.Background())
}

// RecomputeContext runs the pipeline on the current ledger and publishes the
// result. When the current snapshot already reflects the ledger version it
// is returned as is.
// Implementation:
//   - Stage 1: acquire the pipeline slot or give up when ctx ends.
//   - Stage 2: copy the ledger under its mutex; ingestion continues freely.
//   - Stage 3: run the pipeline in its own goroutine, which keeps the slot
//     until it returns; on ctx expiry the result is dropped.
//
// Errors:
//   - ctx.Err() if the slot could not be acquired.
//   - ErrDiscarded (wrapping ctx.Err()) if ctx ended during the run.
//   - Stage errors and ErrPipeline; the previous snapshot stays in place.
func (c *Conversation) RecomputeContext(ctx context.Context) (*Snapshot, error) {
	select {
	case c.computing <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	in := c.capture()
	if cur := c.snap.Load(); cur != nil && cur.Version == in.version {
		<-c.computing
		return cur, nil
	}

	type outcome struct {
		snap *Snapshot
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() { <-c.computing }()
		snap, err := c.pipeline(ctx, in)
		done <- outcome{snap: snap, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			c.log.Error("recompute failed", "version", in.version, "err", out.err)
			return nil, out.err
		}
		if err := ctx.Err(); err != nil {
			c.log.Warn("recompute discarded", "version", in.version, "err", err)
			return nil, discarded(err)
		}
		c.publish(out.snap)
		c.log.Info("recomputed",
			"version", out.snap.Version,
			"participants", out.snap.Matrix.Rows(),
			"statements", out.snap.Matrix.Cols(),
			"groups", len(out.snap.Clusters.Groups),
			"elapsed", out.snap.Elapsed)

		return out.snap, nil
	case <-ctx.Done():
		c.log.Warn("recompute discarded", "version", in.version, "err", ctx.Err())
		return nil, discarded(ctx.Err())
	}
}

// publish installs s unless a snapshot of a newer version is already
// visible.
func (c *Conversation) publish(s *Snapshot) bool {
	for {
		cur := c.snap.Load()
		if cur != nil && cur.Version > s.Version {
			return false
		}
		if c.snap.CompareAndSwap(cur, s) {
			return true
		}
	}
}

// Snapshot returns the last published snapshot.
func (c *Conversation) Snapshot() *Snapshot { return c.snap.Load() }

// RatingMatrix returns a copy of the live rating matrix.
func (c *Conversation) RatingMatrix() *votes.Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledger.Snapshot()
}

// Projection returns the cached projection.
func (c *Conversation) Projection() *pca.Result { return c.snap.Load().Projection }

// Groups returns the cached opinion groups.
func (c *Conversation) Groups() []cluster.Group { return c.snap.Load().Clusters.Groups }

// Unassigned returns the participants of discarded small clusters.
func (c *Conversation) Unassigned() []votes.ParticipantID { return c.snap.Load().Clusters.Unassigned }

// Repness returns the cached representativeness result.
func (c *Conversation) Repness() *repness.Result { return c.snap.Load().Repness }

// Correlations returns the cached participant × group correlations.
func (c *Conversation) Correlations() *repness.Correlations { return c.snap.Load().Correlations }

// Priorities returns a copy of the cached statement priorities.
func (c *Conversation) Priorities() map[votes.StatementID]int {
	src := c.snap.Load().Priorities
	out := make(map[votes.StatementID]int, len(src))
	for k, v := range src {
		out[k] = v
	}

	return out
}

// ParticipantCount returns the number of participants in the live ledger.
func (c *Conversation) ParticipantCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledger.Participants()
}

// StatementCount returns the number of statements in the live ledger.
func (c *Conversation) StatementCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledger.Statements()
}

// Watermark returns the live ledger watermark.
func (c *Conversation) Watermark() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledger.Watermark()
}

// Version returns the live ledger version.
func (c *Conversation) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ledger.Version()
}

// Stale reports whether the ledger changed since the published snapshot
// was computed.
func (c *Conversation) Stale() bool {
	return c.Snapshot().Version != c.Version()
}
