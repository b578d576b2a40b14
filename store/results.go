// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/agora/votes"
)

// PrioritySet is the last persisted priority table of a conversation.
type PrioritySet struct {
	Version    uint64
	ComputedAt time.Time
	Values     map[votes.StatementID]int
}

// MarkMeta flags statements of conversation as meta, registering unknown
// statements on the way.
func (s *Store) MarkMeta(ctx context.Context, conversation string, ids ...votes.StatementID) error {
	return s.setMeta(ctx, conversation, true, ids)
}

// UnmarkMeta clears the meta flag of statements.
func (s *Store) UnmarkMeta(ctx context.Context, conversation string, ids ...votes.StatementID) error {
	return s.setMeta(ctx, conversation, false, ids)
}

func (s *Store) setMeta(ctx context.Context, conversation string, meta bool, ids []votes.StatementID) error {
	if conversation == "" {
		return ErrEmptyConversation
	}

	return s.write(ctx, "mark meta", func(exec execer) error {
		for _, id := range ids {
			if _, err := exec.ExecContext(ctx, `
				INSERT INTO statements (conversation_id, statement_id, is_meta) VALUES (?, ?, ?)
				ON CONFLICT(conversation_id, statement_id) DO UPDATE SET is_meta = excluded.is_meta`,
				conversation, int64(id), boolToInt(meta)); err != nil {
				return err
			}
		}
		return nil
	})
}

// MetaStatements returns the meta statements of conversation in id order.
func (s *Store) MetaStatements(ctx context.Context, conversation string) ([]votes.StatementID, error) {
	if conversation == "" {
		return nil, ErrEmptyConversation
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT statement_id FROM statements
		WHERE conversation_id = ? AND is_meta = 1
		ORDER BY statement_id`, conversation)
	if err != nil {
		return nil, fmt.Errorf("store: meta statements: %w", err)
	}
	defer rows.Close()

	var out []votes.StatementID
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: meta statements: %w", err)
		}
		out = append(out, votes.StatementID(id))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: meta statements: %w", err)
	}

	return out, nil
}

// SaveExtremity upserts externally computed extremity values.
func (s *Store) SaveExtremity(ctx context.Context, conversation string, values map[votes.StatementID]float64) error {
	if conversation == "" {
		return ErrEmptyConversation
	}
	for id, e := range values {
		if math.IsNaN(e) || e < 0 || e > 1 {
			return fmt.Errorf("store: statement %d extremity %v: %w", id, e, ErrBadExtremity)
		}
	}

	return s.write(ctx, "save extremity", func(exec execer) error {
		for id, e := range values {
			if _, err := exec.ExecContext(ctx, `
				INSERT INTO extremity (conversation_id, statement_id, extremity) VALUES (?, ?, ?)
				ON CONFLICT(conversation_id, statement_id) DO UPDATE SET extremity = excluded.extremity`,
				conversation, int64(id), e); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExtremityFor returns the stored extremity values of conversation. It
// satisfies conversation.ExtremitySource.
func (s *Store) ExtremityFor(ctx context.Context, conversation string) (map[votes.StatementID]float64, error) {
	if conversation == "" {
		return nil, ErrEmptyConversation
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT statement_id, extremity FROM extremity WHERE conversation_id = ?`, conversation)
	if err != nil {
		return nil, fmt.Errorf("store: extremity: %w", err)
	}
	defer rows.Close()

	out := make(map[votes.StatementID]float64)
	for rows.Next() {
		var (
			id int64
			e  float64
		)
		if err = rows.Scan(&id, &e); err != nil {
			return nil, fmt.Errorf("store: extremity: %w", err)
		}
		out[votes.StatementID(id)] = e
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: extremity: %w", err)
	}

	return out, nil
}

// SavePriorities replaces the priority table of conversation with values
// computed from ledger version. An older version never overwrites a newer
// one; the return value reports whether the table was written.
func (s *Store) SavePriorities(ctx context.Context, conversation string, version uint64, values map[votes.StatementID]int) (bool, error) {
	if conversation == "" {
		return false, ErrEmptyConversation
	}

	written := false
	err := s.write(ctx, "save priorities", func(exec execer) error {
		var current int64
		err := exec.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(version), -1) FROM priorities WHERE conversation_id = ?`,
			conversation).Scan(&current)
		if err != nil {
			return err
		}
		if current > int64(version) {
			return nil
		}
		if _, err = exec.ExecContext(ctx, `DELETE FROM priorities WHERE conversation_id = ?`, conversation); err != nil {
			return err
		}
		now := toMillis(time.Now())
		for id, p := range values {
			if _, err = exec.ExecContext(ctx, `
				INSERT INTO priorities (conversation_id, statement_id, priority, version, computed_at)
				VALUES (?, ?, ?, ?, ?)`,
				conversation, int64(id), p, int64(version), now); err != nil {
				return err
			}
		}
		written = true
		return nil
	})

	return written, err
}

// Priorities returns the persisted priority table of conversation. An
// unknown conversation yields an empty set.
func (s *Store) Priorities(ctx context.Context, conversation string) (*PrioritySet, error) {
	if conversation == "" {
		return nil, ErrEmptyConversation
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT statement_id, priority, version, computed_at
		FROM priorities WHERE conversation_id = ?`, conversation)
	if err != nil {
		return nil, fmt.Errorf("store: priorities: %w", err)
	}
	defer rows.Close()

	out := &PrioritySet{Values: make(map[votes.StatementID]int)}
	for rows.Next() {
		var (
			id, version, ms int64
			p               int
		)
		if err = rows.Scan(&id, &p, &version, &ms); err != nil {
			return nil, fmt.Errorf("store: priorities: %w", err)
		}
		out.Values[votes.StatementID(id)] = p
		out.Version = uint64(version)
		out.ComputedAt = fromMillis(ms)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: priorities: %w", err)
	}

	return out, nil
}
