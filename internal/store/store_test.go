package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "selva.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selva.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening an existing database reapplies schema harmlessly.
	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSessionRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := Session{
		ID:        "sess-1",
		SheetHash: "abc123",
		Root:      "/html",
		RuleCount: 3,
	}
	require.NoError(t, s.WriteSession(ctx, sess))

	got, err := s.ReadSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestReadSession_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWriteSession_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := Session{ID: "sess-1", SheetHash: "h", Root: "/a", RuleCount: 1}
	require.NoError(t, s.WriteSession(ctx, sess))
	require.NoError(t, s.WriteSession(ctx, sess))

	got, err := s.ReadSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestMatchRoundtrip_OrderedBySeqThenRule(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteSession(ctx, Session{
		ID: "sess-1", SheetHash: "h", Root: "/a", RuleCount: 2,
	}))

	// Written out of order; reads come back sorted.
	matches := []Match{
		{SessionID: "sess-1", Seq: 2, NodePath: "/a/b[0]", RuleIx: 1, Selector: "a b"},
		{SessionID: "sess-1", Seq: 1, NodePath: "/a", RuleIx: 0, Selector: "a"},
		{SessionID: "sess-1", Seq: 2, NodePath: "/a/b[0]", RuleIx: 0, Selector: "a"},
	}
	require.NoError(t, s.WriteMatches(ctx, matches))

	got, err := s.ReadMatches(ctx, "sess-1", "h")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, int64(2), got[1].Seq)
	assert.Equal(t, 0, got[1].RuleIx)
	assert.Equal(t, 1, got[2].RuleIx)
}

func TestWriteMatch_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteSession(ctx, Session{
		ID: "sess-1", SheetHash: "h", Root: "/a", RuleCount: 1,
	}))

	m := Match{SessionID: "sess-1", Seq: 1, NodePath: "/a", RuleIx: 0, Selector: "a"}
	require.NoError(t, s.WriteMatch(ctx, m))
	require.NoError(t, s.WriteMatch(ctx, m))

	got, err := s.ReadMatches(ctx, "sess-1", "h")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReadMatches_SheetHashMismatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteSession(ctx, Session{
		ID: "sess-1", SheetHash: "original", Root: "/a", RuleCount: 1,
	}))
	require.NoError(t, s.WriteMatch(ctx, Match{
		SessionID: "sess-1", Seq: 1, NodePath: "/a", RuleIx: 0, Selector: "a",
	}))

	_, err := s.ReadMatches(ctx, "sess-1", "rebuilt")
	assert.ErrorIs(t, err, ErrSheetHashMismatch)
}

func TestWriteMatches_Empty(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.WriteMatches(context.Background(), nil))
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}
	assert.NotEqual(t, g.Generate(), g.Generate())
}
