// Package repositories implements SQLite persistence for the playlist ledger.
//
// Only playlist creations are stored; wrapped summaries are computed per request and never persisted.
//
// Key Implementations:
//   - [PlaylistLedger] : append-only record of created playlists, their owner, time range and outcome
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// Schema changes live in the shared package as embedded migrations; open databases with shared.OpenDatabase.
package repositories
