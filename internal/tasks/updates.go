package tasks

import (
	"fmt"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
)

// ProgressUpdate represents a progress event during a wrapped operation.
//
// Used to send real-time updates to the CLI or server layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchTopTracks
	FetchTopArtists
	FetchRecentlyPlayed
	Aggregate
	CreatePlaylist
	AddTracks
	Lookup
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchTopTracks:
		return "fetch_top_tracks"
	case FetchTopArtists:
		return "fetch_top_artists"
	case FetchRecentlyPlayed:
		return "fetch_recently_played"
	case Aggregate:
		return "aggregate"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case Lookup:
		return "lookup"
	default:
		return ""
	}
}

func fetchProfileUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchProfile, Step: 1, Total: 1, Message: "Fetching user profile..."}
}

func fetchUpdate(phase Phase, timeRange string) ProgressUpdate {
	var what string
	switch phase {
	case FetchTopTracks:
		what = "top tracks (" + timeRange + ")"
	case FetchTopArtists:
		what = "top artists (" + timeRange + ")"
	default:
		what = "recently played"
	}
	return ProgressUpdate{Phase: phase, Step: 1, Total: 1, Message: "Fetching " + what + "..."}
}

func aggregatedUpdate(summary *models.WrappedSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregate,
		Step:    1,
		Total:   1,
		Message: summary.Headline,
		Data:    summary,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func playlistCreatedUpdate(res *models.PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Playlist created (ID: %s)", res.PlaylistID),
		Data:    res,
	}
}

func addTracksUpdate(n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks...", n),
	}
}

func skipAddUpdate(n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Skipping track addition (%d URIs)", n),
	}
}

func lookupBatchUpdate(step, total int, kind LookupKind, size int, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   Lookup,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("✗ %s batch of %d: %v", kind, size, err),
			Data:    err,
		}
	}
	return ProgressUpdate{
		Phase:   Lookup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ %s batch of %d", kind, size),
	}
}
