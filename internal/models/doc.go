// Package models defines the wire records served by music providers and the derived "wrapped" insight types.
//
// The package contains three categories of types:
//
// 1. Provider records: JSON shapes returned by a provider, never mutated locally
//   - [Track] : Track with optional popularity and playable URI
//   - [Artist] : Artist with an ordered genre list
//   - [PlayHistory] : One recently-played entry with its ISO-8601 timestamp
//   - [Page], [RecentlyPlayed] : Paginated envelopes around the records
//
// 2. Derived insights: Structures built per request and returned to the caller
//   - [RankedItem] : Trimmed id/name projection for top-N lists
//   - [MainstreamNiche] : Average popularity with its taste label
//   - [TimeVibe] : Time-of-day listening bucket
//   - [WrappedSummary] : All cards plus the composed headline
//   - [PlaylistResult] : Created playlist id and public URL
//
// 3. Persistent entities: [LedgerEntry] records each playlist creation attempt so duplicates caused
// by non-idempotent writes can be audited later.
package models
