// SPDX-License-Identifier: MIT

package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/agora/conversation"
	"github.com/katalvlaran/agora/votes"
)

// Source supplies conversations and their votes. *store.Store implements it.
type Source interface {
	Conversations(ctx context.Context) ([]string, error)
	VotesSince(ctx context.Context, conversation string, since time.Time, limit int) ([]votes.Vote, error)
	MetaStatements(ctx context.Context, conversation string) ([]votes.StatementID, error)
}

// Sink receives priorities of published snapshots. *store.Store implements it.
type Sink interface {
	SavePriorities(ctx context.Context, conversation string, version uint64, values map[votes.StatementID]int) (bool, error)
}

// Round summarizes one RunOnce.
type Round struct {
	Conversations int // conversations visited
	Votes         int // votes read from the source
	Recomputed    int // snapshots published
	Throttled     int // stale conversations left for a later round
	Discarded     int // recomputes that hit the timeout
	Failed        int // conversations whose sync or pipeline failed
}

func (r *Round) add(o Round) {
	r.Conversations += o.Conversations
	r.Votes += o.Votes
	r.Recomputed += o.Recomputed
	r.Throttled += o.Throttled
	r.Discarded += o.Discarded
	r.Failed += o.Failed
}

// tracked is the per-conversation state kept across rounds.
type tracked struct {
	mu      sync.Mutex // serializes syncs of one conversation
	conv    *conversation.Conversation
	limiter *rate.Limiter
	since   time.Time
}

// Worker drives conversations from a Source.
type Worker struct {
	src  Source
	sink Sink
	opts Options
	log  *log.Logger

	mu    sync.Mutex // guards convs
	convs map[string]*tracked
}

// New returns a Worker reading from src. sink may be nil.
//
// Errors:
//   - ErrNilSource, or an option sentinel.
func New(src Source, sink Sink, opts ...Option) (*Worker, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	return &Worker{
		src:   src,
		sink:  sink,
		opts:  o,
		log:   o.Logger,
		convs: make(map[string]*tracked),
	}, nil
}

// Conversation returns the tracked conversation id, if any round saw it.
func (w *Worker) Conversation(id string) (*conversation.Conversation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.convs[id]
	if !ok {
		return nil, false
	}

	return t.conv, true
}

// Run calls RunOnce immediately and then every Interval until ctx ends.
// It returns nil on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		round, err := w.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			w.log.Error("round failed", "err", err)
		} else if err == nil {
			w.log.Debug("round done",
				"conversations", round.Conversations,
				"votes", round.Votes,
				"recomputed", round.Recomputed,
				"throttled", round.Throttled,
				"discarded", round.Discarded,
				"failed", round.Failed)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce syncs every conversation of the source once.
// Failures of single conversations are logged and counted in the Round;
// the returned error reports only a failed listing or a dead ctx.
func (w *Worker) RunOnce(ctx context.Context) (Round, error) {
	ids, err := w.src.Conversations(ctx)
	if err != nil {
		return Round{}, err
	}

	var (
		g     errgroup.Group
		mu    sync.Mutex
		total Round
	)
	g.SetLimit(w.opts.Concurrency)
	for _, id := range ids {
		id := id // per-iteration copy; go.mod targets go 1.21
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r := w.sync(ctx, id)
			mu.Lock()
			total.add(r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return total, ctx.Err()
}

// track returns the state of id, creating its Conversation on first sight.
func (w *Worker) track(id string) (*tracked, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.convs[id]; ok {
		return t, nil
	}

	opts := append(append([]conversation.Option(nil), w.opts.Conversation...),
		conversation.WithID(id), conversation.WithLogger(w.log))
	conv, err := conversation.New(opts...)
	if err != nil {
		return nil, err
	}
	limit := rate.Inf
	if w.opts.RecomputeInterval > 0 {
		limit = rate.Every(w.opts.RecomputeInterval)
	}
	t := &tracked{conv: conv, limiter: rate.NewLimiter(limit, 1)}
	w.convs[id] = t

	return t, nil
}

// sync ingests new votes of one conversation and recomputes it when the
// ledger moved and its limiter allows.
func (w *Worker) sync(ctx context.Context, id string) Round {
	r := Round{Conversations: 1}
	logger := w.log.With("conversation", id)

	t, err := w.track(id)
	if err != nil {
		logger.Error("create conversation", "err", err)
		r.Failed++
		return r
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	meta, err := w.src.MetaStatements(ctx, id)
	if err != nil {
		logger.Error("read meta statements", "err", err)
		r.Failed++
		return r
	}
	t.conv.SetMeta(meta...)

	n, err := w.ingest(ctx, t)
	r.Votes = n
	if err != nil {
		logger.Error("read votes", "err", err, "since", t.since)
		r.Failed++
		return r
	}

	if !t.conv.Stale() {
		return r
	}
	if !t.limiter.Allow() {
		r.Throttled++
		return r
	}

	rctx, cancel := context.WithTimeout(ctx, w.opts.RecomputeTimeout)
	defer cancel()
	snap, err := t.conv.RecomputeContext(rctx)
	switch {
	case errors.Is(err, conversation.ErrDiscarded):
		r.Discarded++
		return r
	case err != nil:
		logger.Error("recompute", "err", err)
		r.Failed++
		return r
	}
	r.Recomputed++

	if w.sink != nil {
		if _, err = w.sink.SavePriorities(ctx, id, snap.Version, snap.Priorities); err != nil {
			logger.Error("save priorities", "err", err, "version", snap.Version)
			r.Failed++
		}
	}

	return r
}

// ingest pages votes from t.since into the conversation without
// recomputing. Pages are read with an inclusive lower bound; when a full
// page does not move the watermark the page size doubles so that a burst
// of votes sharing one timestamp is still consumed.
func (w *Worker) ingest(ctx context.Context, t *tracked) (int, error) {
	limit, total := w.opts.PageSize, 0
	for {
		page, err := w.src.VotesSince(ctx, t.conv.ID(), t.since, limit)
		if err != nil {
			return total, err
		}
		total += len(page)
		if len(page) == 0 {
			return total, nil
		}

		wm := votes.Watermark(page)
		if _, err = t.conv.UpdateVotes(page, wm, false); err != nil {
			return total, err
		}
		if len(page) < limit {
			if wm.After(t.since) {
				t.since = wm
			}
			return total, nil
		}
		if !wm.After(t.since) {
			limit *= 2
			continue
		}
		t.since = wm
	}
}
