package conversation_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/conversation"
	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/repness"
	"github.com/katalvlaran/agora/votes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func vote(p, s int64, v votes.Value, sec int64) votes.Vote {
	return votes.Vote{
		Participant: votes.ParticipantID(p),
		Statement:   votes.StatementID(s),
		Value:       v,
		CreatedAt:   at(sec),
	}
}

// twoGroupBatch is the 100×20 scenario: 0–49 agree with 0–9 and disagree
// with 10–19; 50–99 the reverse.
func twoGroupBatch() []votes.Vote {
	var batch []votes.Vote
	for p := int64(0); p < 100; p++ {
		for s := int64(0); s < 20; s++ {
			v := votes.Agree
			if s >= 10 {
				v = votes.Disagree
			}
			if p >= 50 {
				v = -v
			}
			batch = append(batch, vote(p, s, v, p+1))
		}
	}

	return batch
}

func newConversation(t *testing.T, opts ...conversation.Option) *conversation.Conversation {
	t.Helper()
	c, err := conversation.New(append([]conversation.Option{conversation.WithID("test")}, opts...)...)
	require.NoError(t, err)

	return c
}

// TestNew_EmptySnapshot publishes a trivial snapshot at construction.
func TestNew_EmptySnapshot(t *testing.T) {
	c := newConversation(t)
	assert.Equal(t, "test", c.ID())
	assert.Empty(t, c.Groups())
	assert.True(t, c.Repness().Empty())
	assert.False(t, c.Stale())
	assert.Equal(t, uint64(0), c.Snapshot().Version)

	auto, err := conversation.New()
	require.NoError(t, err)
	assert.Len(t, auto.ID(), 36, "default id is a UUID")

	_, err = conversation.New(conversation.WithID(""))
	assert.ErrorIs(t, err, conversation.ErrEmptyID)

	_, err = conversation.New(conversation.WithProjectionOptions(pca.WithComponents(0)))
	assert.ErrorIs(t, err, pca.ErrBadComponents)
}

// TestDegenerate_OneParticipant yields one group, empty repness and zero
// variance.
func TestDegenerate_OneParticipant(t *testing.T) {
	c := newConversation(t)
	assert.Equal(t, 1, c.AddParticipants(42))
	assert.True(t, c.Stale())

	_, err := c.Recompute()
	require.NoError(t, err)

	groups := c.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, []votes.ParticipantID{42}, groups[0].Members)
	assert.True(t, c.Repness().Empty())
	assert.Equal(t, []float64{0, 0}, c.Projection().VarianceExplained)
	assert.Equal(t, 1, c.ParticipantCount())
	assert.Equal(t, 0, c.StatementCount())
}

// TestTwoGroupScenario recovers two groups of 50 and their representative
// statements.
func TestTwoGroupScenario(t *testing.T) {
	c := newConversation(t)
	batch := twoGroupBatch()
	rep, err := c.UpdateVotes(batch, votes.Watermark(batch), true)
	require.NoError(t, err)
	assert.Equal(t, 2000, rep.Accepted)
	assert.False(t, c.Stale())

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 50, groups[0].Size())
	assert.Equal(t, 50, groups[1].Size())
	assert.Empty(t, c.Unassigned())

	a, b := groups[0], groups[1]
	if a.Members[0] != 0 {
		a, b = b, a
	}
	assert.Equal(t, votes.ParticipantID(0), a.Members[0])
	assert.Equal(t, votes.ParticipantID(50), b.Members[0])

	res := c.Repness()
	for _, tc := range []struct {
		group     int
		low, high repness.Direction
	}{
		{a.ID, repness.Agree, repness.Disagree},
		{b.ID, repness.Disagree, repness.Agree},
	} {
		dirs := map[votes.StatementID]repness.Direction{}
		for _, r := range res.ForGroup(tc.group) {
			dirs[r.Statement] = r.Direction
		}
		require.Len(t, dirs, 20)
		for s := votes.StatementID(0); s < 20; s++ {
			want := tc.low
			if s >= 10 {
				want = tc.high
			}
			assert.Equal(t, want, dirs[s], "group %d statement %d", tc.group, s)
		}
	}

	corr, ok := c.Correlations().Of(0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, corr[a.ID], 1e-9)
	assert.Len(t, c.Priorities(), 20)
}

// TestUpdateVotes_Idempotent re-sends a batch and expects identical state.
func TestUpdateVotes_Idempotent(t *testing.T) {
	c := newConversation(t)
	batch := twoGroupBatch()[:400]

	_, err := c.UpdateVotes(batch, votes.Watermark(batch), true)
	require.NoError(t, err)
	first := c.Snapshot()
	m1 := c.RatingMatrix()

	rep, err := c.UpdateVotes(batch, votes.Watermark(batch), true)
	require.NoError(t, err)
	assert.Equal(t, 400, rep.Unchanged)
	assert.Equal(t, m1, c.RatingMatrix())
	assert.Same(t, first, c.Snapshot(), "no change means no new snapshot")
	assert.Equal(t, first.Projection, c.Projection())
	assert.Equal(t, first.Clusters.Groups, c.Groups())
	assert.Equal(t, first.Repness, c.Repness())
}

// TestUpdateVotes_OverwriteSemantics keeps +1 after an older -1 and takes a
// newer -1.
func TestUpdateVotes_OverwriteSemantics(t *testing.T) {
	c := newConversation(t)

	_, err := c.UpdateVotes([]votes.Vote{vote(1, 1, votes.Agree, 100)}, at(100), false)
	require.NoError(t, err)
	_, err = c.UpdateVotes([]votes.Vote{vote(1, 1, votes.Disagree, 50)}, at(50), false)
	require.NoError(t, err)
	r, _ := c.RatingMatrix().Get(1, 1)
	assert.Equal(t, votes.Agree, r.Value)

	_, err = c.UpdateVotes([]votes.Vote{vote(1, 1, votes.Disagree, 150)}, at(150), false)
	require.NoError(t, err)
	r, _ = c.RatingMatrix().Get(1, 1)
	assert.Equal(t, votes.Disagree, r.Value)
	assert.Equal(t, at(150), c.Watermark())
}

// TestUpdateVotes_DeferredRecompute keeps the old caches visible and marks
// them stale until a recompute.
func TestUpdateVotes_DeferredRecompute(t *testing.T) {
	c := newConversation(t)
	before := c.Snapshot()

	rep, err := c.UpdateVotes([]votes.Vote{vote(1, 1, votes.Agree, 1), vote(2, 1, 7, 1)}, at(1), false)
	require.NoError(t, err)
	require.Len(t, rep.Rejected, 1)
	assert.ErrorIs(t, rep.Rejected[0].Err, votes.ErrInvalidValue)

	assert.True(t, c.Stale())
	assert.Same(t, before, c.Snapshot())

	snap, err := c.Recompute()
	require.NoError(t, err)
	assert.False(t, c.Stale())
	assert.Equal(t, c.Version(), snap.Version)
	assert.Equal(t, 1, snap.Matrix.Len())
}

// blockingSource blocks ExtremityFor until release is closed.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) ExtremityFor(context.Context, string) (map[votes.StatementID]float64, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release

	return nil, nil
}

// TestRecomputeContext_Discard drops a result that outlives its context
// and keeps the previous snapshot.
func TestRecomputeContext_Discard(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	c := newConversation(t, conversation.WithExtremitySource(src))
	_, err := c.UpdateVotes([]votes.Vote{vote(1, 1, votes.Agree, 1)}, at(1), false)
	require.NoError(t, err)
	before := c.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.RecomputeContext(ctx)
	assert.ErrorIs(t, err, conversation.ErrDiscarded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	<-src.entered
	assert.Same(t, before, c.Snapshot())

	close(src.release)
	snap, err := c.Recompute()
	require.NoError(t, err)
	assert.Equal(t, c.Version(), snap.Version)
	assert.False(t, c.Stale())
}

// TestRecomputeContext_Cancelled returns immediately on a dead context.
func TestRecomputeContext_Cancelled(t *testing.T) {
	c := newConversation(t)
	c.AddParticipants(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.RecomputeContext(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, c.Stale())
}

// TestPriorities_MetaAndExternal uses meta flags and external extremity.
func TestPriorities_MetaAndExternal(t *testing.T) {
	c := newConversation(t,
		conversation.WithMetaStatements(2),
		conversation.WithExtremitySource(conversation.ExtremityMap{3: 1, 4: 5}),
	)
	_, err := c.UpdateVotes([]votes.Vote{
		vote(1, 1, votes.Pass, 1),
		vote(1, 2, votes.Agree, 1),
		vote(1, 3, votes.Pass, 1),
		vote(1, 4, votes.Pass, 1),
	}, at(1), true)
	require.NoError(t, err)

	// S=1, A=0, P=1: importance 1/9 and scaling 1+8·2^(-0.2) give 0.78;
	// E=1 doubles the importance and gives 3.13.
	p := c.Priorities()
	assert.Equal(t, 49, p[2])
	assert.Equal(t, 0, p[1], "computed extremity is 0 for a single group")
	assert.Equal(t, 3, p[3])
	assert.Equal(t, 0, p[4], "out-of-range external extremity is ignored")

	c.MarkMeta(1)
	_, err = c.UpdateVotes([]votes.Vote{vote(2, 1, votes.Agree, 2)}, at(2), true)
	require.NoError(t, err)
	assert.Equal(t, 49, c.Priorities()[1])

	c.SetMeta(1)
	_, err = c.UpdateVotes([]votes.Vote{vote(2, 2, votes.Agree, 3)}, at(3), true)
	require.NoError(t, err)
	p = c.Priorities()
	assert.Equal(t, 49, p[1])
	assert.NotEqual(t, 49, p[2], "replaced flags no longer apply")
}

// TestConcurrentIngestAndRecompute exercises the locking under -race.
func TestConcurrentIngestAndRecompute(t *testing.T) {
	c := newConversation(t, conversation.WithClusterOptions(cluster.WithRestarts(2)))
	batch := twoGroupBatch()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(batch); i += 4 * 50 {
				end := i + 50
				if end > len(batch) {
					end = len(batch)
				}
				chunk := batch[i:end]
				_, _ = c.UpdateVotes(chunk, votes.Watermark(chunk), i%400 == 0)
			}
		}(w)
	}
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Recompute()
			_ = c.Groups()
			_ = c.Priorities()
		}()
	}
	wg.Wait()

	_, err := c.UpdateVotes(batch, votes.Watermark(batch), true)
	require.NoError(t, err)
	assert.False(t, c.Stale())
	assert.Equal(t, 100, c.ParticipantCount())
	assert.Equal(t, 20, c.StatementCount())
	assert.Len(t, c.Groups(), 2)
}

// TestLogger_Recompute writes a structured line per recompute.
func TestLogger_Recompute(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	c := newConversation(t, conversation.WithLogger(logger))

	_, err := c.UpdateVotes([]votes.Vote{vote(1, 1, votes.Agree, 1)}, at(1), true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "recomputed")
	assert.Contains(t, buf.String(), "conversation=test")
}
