package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrSheetHashMismatch is returned when a read supplies a sheet hash
// that differs from the one the session was recorded against. Rule
// indices from one table are meaningless against another, so the read
// is refused rather than returning misleading rows.
var ErrSheetHashMismatch = errors.New("sheet hash mismatch")

// ReadSession loads a session by ID.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sheet_hash, root, rule_count
		FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.SheetHash, &sess.Root, &sess.RuleCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sess, nil
}

// ReadMatches returns all matches for a session in (seq, rule_ix) order.
// sheetHash must equal the hash recorded with the session; pass the hash
// of the rule table you intend to resolve rule indices against.
func (s *Store) ReadMatches(ctx context.Context, sessionID, sheetHash string) ([]Match, error) {
	sess, err := s.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.SheetHash != sheetHash {
		return nil, fmt.Errorf("session %s recorded against sheet %s, got %s: %w",
			sessionID, sess.SheetHash, sheetHash, ErrSheetHashMismatch)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, node_path, rule_ix, selector
		FROM matches WHERE session_id = ?
		ORDER BY seq, rule_ix`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read matches for %s: %w", sessionID, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.SessionID, &m.Seq, &m.NodePath, &m.RuleIx, &m.Selector); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}
	return matches, nil
}
