// Package store provides durable recording of match sessions.
//
// A session pairs one compiled rule table (identified by its sheet hash)
// with one tree walk; every reported match is written as a row keyed by
// the node's visit seq and the matched rule index. Rule indices are only
// meaningful against the rule table that produced them, so reads verify
// the caller's sheet hash against the session's recorded hash and refuse
// mismatches - reusing recorded indices against a rebuilt table is a bug,
// not a recoverable condition.
//
// Uses SQLite with WAL mode; writes are idempotent via ON CONFLICT DO
// NOTHING so re-recording an identical walk is harmless.
package store
