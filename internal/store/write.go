package store

import (
	"context"
	"fmt"
)

// WriteSession records a session row. Idempotent: re-inserting an
// existing session ID is a no-op.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, sheet_hash, root, rule_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		sess.ID, sess.SheetHash, sess.Root, sess.RuleCount)
	if err != nil {
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	return nil
}

// WriteMatch records one match row. Idempotent on (session, seq, rule).
func (s *Store) WriteMatch(ctx context.Context, m Match) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (session_id, seq, node_path, rule_ix, selector)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		m.SessionID, m.Seq, m.NodePath, m.RuleIx, m.Selector)
	if err != nil {
		return fmt.Errorf("write match (session %s, seq %d, rule %d): %w",
			m.SessionID, m.Seq, m.RuleIx, err)
	}
	return nil
}

// WriteMatches records a batch of matches in a single transaction.
func (s *Store) WriteMatches(ctx context.Context, matches []Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches (session_id, seq, node_path, rule_ix, selector)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		if _, err := stmt.ExecContext(ctx, m.SessionID, m.Seq, m.NodePath, m.RuleIx, m.Selector); err != nil {
			return fmt.Errorf("write match (session %s, seq %d, rule %d): %w",
				m.SessionID, m.Seq, m.RuleIx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit matches: %w", err)
	}
	return nil
}
