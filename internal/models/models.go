// package models defines provider records and wrapped insight types
package models

import (
	"fmt"
	"time"
)

// Track is a track record as returned by a provider.
//
// Popularity is nil when the provider omitted the field, which is distinct from a popularity of zero.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URI        string `json:"uri,omitempty"`
	Popularity *int   `json:"popularity,omitempty"`
}

// Ranked projects the track onto a [RankedItem].
func (t Track) Ranked() RankedItem {
	return RankedItem{ID: t.ID, Name: t.Name}
}

// Artist is an artist record as returned by a provider.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

// Ranked projects the artist onto a [RankedItem].
func (a Artist) Ranked() RankedItem {
	return RankedItem{ID: a.ID, Name: a.Name}
}

// PlayHistory is a single recently-played entry.
type PlayHistory struct {
	PlayedAt string `json:"played_at"`
	Track    Track  `json:"track"`
}

// Page is the paginated envelope used by top-tracks and top-artists responses.
type Page[T any] struct {
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Href     string  `json:"href,omitempty"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Cursors marks the position of a recently-played page.
type Cursors struct {
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`
}

// RecentlyPlayed is the recently-played envelope. Items are kept in provider order.
type RecentlyPlayed struct {
	Items   []PlayHistory `json:"items"`
	Limit   int           `json:"limit"`
	Next    *string       `json:"next"`
	Cursors *Cursors      `json:"cursors,omitempty"`
}

// User is the identity of the current user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// TracksResponse is the batch track lookup result; unknown ids are nil.
type TracksResponse struct {
	Tracks []*Track `json:"tracks"`
}

// ArtistsResponse is the batch artist lookup result; unknown ids are nil.
type ArtistsResponse struct {
	Artists []*Artist `json:"artists"`
}

// ExternalURLs holds public links to a provider resource.
type ExternalURLs struct {
	Spotify string `json:"spotify,omitempty"`
}

// Owner identifies the user owning a playlist.
type Owner struct {
	ID string `json:"id"`
}

// PlaylistTracksRef is the track summary embedded in a created playlist.
type PlaylistTracksRef struct {
	Href  string `json:"href,omitempty"`
	Total int    `json:"total"`
}

// Playlist is a playlist as returned by a create call.
type Playlist struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Public       bool               `json:"public"`
	Description  string             `json:"description"`
	Owner        *Owner             `json:"owner,omitempty"`
	SnapshotID   string             `json:"snapshot_id,omitempty"`
	ExternalURLs ExternalURLs       `json:"external_urls"`
	Href         string             `json:"href,omitempty"`
	Type         string             `json:"type,omitempty"`
	URI          string             `json:"uri,omitempty"`
	Tracks       *PlaylistTracksRef `json:"tracks,omitempty"`
}

// Snapshot identifies the playlist version produced by a mutation.
type Snapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

// RankedItem is a trimmed id/name pair used in top-N lists.
type RankedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Popularity labels
const (
	LabelMainstream = "Mainstream"
	LabelBalanced   = "Balanced"
	LabelDeepCuts   = "Deep Cuts"
)

// MainstreamNiche is the popularity verdict for a set of tracks.
type MainstreamNiche struct {
	AveragePopularity float64 `json:"average_popularity"`
	Label             string  `json:"label"`
}

// TimeVibe is the time-of-day bucket where most listening happened.
type TimeVibe string

const (
	VibeMorning          TimeVibe = "morning"
	VibeAfternoon        TimeVibe = "afternoon"
	VibeEvening          TimeVibe = "evening"
	VibeLateNight        TimeVibe = "late_night"
	VibeInsufficientData TimeVibe = "insufficient_data"
)

func (v TimeVibe) String() string {
	return string(v)
}

// WrappedSummary holds every insight card produced for one summary request.
type WrappedSummary struct {
	Headline          string          `json:"headline"`
	TopArtists        []RankedItem    `json:"top_artists"`
	TopTracks         []RankedItem    `json:"top_tracks"`
	GenreDNA          []string        `json:"genre_dna"`
	MainstreamVsNiche MainstreamNiche `json:"mainstream_vs_niche"`
	TimeOfDayVibe     TimeVibe        `json:"time_of_day_vibe"`
}

// PlaylistResult is the outcome of a playlist creation request.
type PlaylistResult struct {
	PlaylistID  string `json:"playlist_id"`
	PlaylistURL string `json:"playlist_url"`
}

// LedgerStatus describes how far a playlist creation got.
type LedgerStatus string

const (
	LedgerPopulated LedgerStatus = "populated"  // Tracks were added
	LedgerEmpty     LedgerStatus = "empty"      // Playlist created without tracks
	LedgerAddFailed LedgerStatus = "add_failed" // Playlist created, track addition failed
)

// LedgerEntry is a persisted record of one playlist creation.
type LedgerEntry struct {
	ID          string       `json:"id"`
	Sequence    int          `json:"sequence"`
	Provider    string       `json:"provider"`
	UserID      string       `json:"user_id"`
	PlaylistID  string       `json:"playlist_id"`
	PlaylistURL string       `json:"playlist_url"`
	TimeRange   string       `json:"time_range"`
	Public      bool         `json:"public"`
	TrackCount  int          `json:"track_count"`
	Status      LedgerStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Validate checks required fields before the entry is persisted.
func (e *LedgerEntry) Validate() error {
	if e.PlaylistID == "" {
		return fmt.Errorf("playlist_id is required")
	}
	switch e.Status {
	case LedgerPopulated, LedgerEmpty, LedgerAddFailed:
	default:
		return fmt.Errorf("unknown status %q", e.Status)
	}
	if e.TrackCount < 0 {
		return fmt.Errorf("track_count must not be negative")
	}
	return nil
}
