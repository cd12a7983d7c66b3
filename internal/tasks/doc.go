// Package tasks orchestrates wrapped operations over a [services.Provider] with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Summarize] : Wrapped summary cards
//     - Fetches top tracks, top artists and recently played (20 each) concurrently
//     - Waits for all three (join barrier); the first failure cancels the rest and aborts the call
//     - Aggregates with the insights package into a [models.WrappedSummary]
//
//  2. [Engine.CreatePlaylist] : Playlist from top tracks
//     - Looks up the user (falls back to "mock_user"), then fetches top tracks
//     - Creates "Wrapped ({time_range})" with description "Your top tracks for {time_range}."
//     - Adds the track URIs only when a playlist id came back and at least one URI exists
//     - Never rolls back: a failed addition leaves an empty playlist and surfaces the error
//
// [WrappedEngine.Lookup] additionally resolves track or artist ids in batches with a rate-limited worker pool.
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate]. Sends use select with default so a slow
// or absent reader never blocks the operation.
//
// # Playlist Ledger
//
// The optional [PlaylistRecorder] receives one [models.LedgerEntry] per created playlist, including
// created-but-empty and failed-addition outcomes. Recording errors are ignored so bookkeeping never
// changes the operation's result.
package tasks
