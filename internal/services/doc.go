// Package services defines the [Provider] interface for music listening data sources and implements it for the
// fixture-backed mock API.
//
// # Provider Interface
//
// The wrapped engine only sees [Provider], so a real streaming-service client can replace the mock without
// touching aggregation or orchestration. Implementations are chosen once at startup by [NewProvider] from
// [shared.ProviderConfig]; the engine never inspects the concrete type.
//
// # Mock Implementation
//
// [MockProvider] maps each operation onto one HTTP call:
//   - GET /me, /me/top/tracks, /me/top/artists, /me/player/recently-played with query parameters
//   - GET /tracks and /artists with comma-joined ids (skipped entirely for empty input)
//   - POST /users/{id}/playlists and /playlists/{id}/tracks with JSON bodies
//
// There is no caching and no retry. An optional [rate.Limiter] throttles outgoing calls.
//
// # Error Handling
//
// Every failure is returned as a [shared.ProviderError] carrying the method, path, and cause:
//   - transport errors and timeouts
//   - non-2xx statuses, with the {"detail"} message when the body has one
//   - undecodable response bodies
//
// [MockProvider.AddTracks] rejects an empty URI list with [shared.ErrValidation] before any request.
// Unsupported modes in [NewProvider] wrap [shared.ErrInvalidConfig].
package services
