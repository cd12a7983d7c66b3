// Package fixtures serves a fake provider API from embedded JSON documents.
//
// Routes mirror the subset of the Spotify Web API the wrapped engine uses and are mounted under [Prefix]:
//
//	GET  /v1/me
//	GET  /v1/me/top/tracks?limit=&offset=
//	GET  /v1/me/top/artists?limit=&offset=
//	GET  /v1/me/player/recently-played?limit=&after=&before=
//	GET  /v1/tracks?ids=
//	GET  /v1/artists?ids=
//	POST /v1/users/{user_id}/playlists
//	POST /v1/playlists/{playlist_id}/tracks
//
// Errors use a {"detail": "..."} body. The services.MockProvider client is the intended consumer.
package fixtures
