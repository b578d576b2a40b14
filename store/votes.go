// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/agora/votes"
)

// SaveVotes appends batch to conversation and returns how many rows were
// new. A vote already stored with the same participant, statement and
// created-at time is ignored.
//
// Errors:
//   - ErrEmptyConversation, ErrInvalidValue (wrapped with the vote).
//   - Driver errors; the batch is rolled back.
func (s *Store) SaveVotes(ctx context.Context, conversation string, batch []votes.Vote) (int, error) {
	if conversation == "" {
		return 0, ErrEmptyConversation
	}
	for _, v := range batch {
		if !v.Value.Valid() {
			return 0, fmt.Errorf("store: participant %d statement %d value %d: %w",
				v.Participant, v.Statement, v.Value, ErrInvalidValue)
		}
	}
	if len(batch) == 0 {
		return 0, nil
	}

	inserted := 0
	err := s.write(ctx, "save votes", func(exec execer) error {
		for _, v := range batch {
			res, err := exec.ExecContext(ctx, `
				INSERT OR IGNORE INTO votes (conversation_id, participant_id, statement_id, value, created_at)
				VALUES (?, ?, ?, ?, ?)`,
				conversation, int64(v.Participant), int64(v.Statement), int(v.Value), toMillis(v.CreatedAt))
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// VotesSince returns at most limit votes of conversation created at or
// after since, oldest first. The bound is inclusive so a page never skips
// votes sharing the previous watermark; replaying them is harmless.
func (s *Store) VotesSince(ctx context.Context, conversation string, since time.Time, limit int) ([]votes.Vote, error) {
	if conversation == "" {
		return nil, ErrEmptyConversation
	}
	if limit <= 0 {
		return nil, ErrBadLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT participant_id, statement_id, value, created_at
		FROM votes
		WHERE conversation_id = ? AND created_at >= ?
		ORDER BY created_at, id
		LIMIT ?`,
		conversation, toMillis(since), limit)
	if err != nil {
		return nil, fmt.Errorf("store: votes since: %w", err)
	}
	defer rows.Close()

	out := make([]votes.Vote, 0, limit)
	for rows.Next() {
		var (
			p, st, ms int64
			val       int
		)
		if err = rows.Scan(&p, &st, &val, &ms); err != nil {
			return nil, fmt.Errorf("store: votes since: %w", err)
		}
		out = append(out, votes.Vote{
			Participant: votes.ParticipantID(p),
			Statement:   votes.StatementID(st),
			Value:       votes.Value(val),
			CreatedAt:   fromMillis(ms),
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: votes since: %w", err)
	}

	return out, nil
}

// Conversations returns every conversation id that has votes or
// statements, in lexical order.
func (s *Store) Conversations(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id FROM votes
		UNION
		SELECT conversation_id FROM statements
		ORDER BY conversation_id`)
	if err != nil {
		return nil, fmt.Errorf("store: conversations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: conversations: %w", err)
		}
		out = append(out, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: conversations: %w", err)
	}

	return out, nil
}
