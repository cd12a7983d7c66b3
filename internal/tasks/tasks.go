// package tasks orchestrates provider calls and insight aggregation into wrapped results.
//
// The core abstraction is WrappedEngine, which produces summaries, creates playlists, and runs batch lookups.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/server layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/ohmpatel46/spotify-wrapped/internal/insights"
	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/services"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"golang.org/x/sync/errgroup"
)

// FetchLimit is the fixed page size of every provider read.
const FetchLimit = 20

// DefaultTimeRange is the tool and CLI default. The engine itself passes time ranges through untouched.
const DefaultTimeRange = "short_term"

// FallbackUserID owns the playlist when the provider returns no user id.
const FallbackUserID = "mock_user"

// Engine defines the two wrapped entry points.
type Engine interface {
	// Summarize fetches top tracks, top artists and recent plays concurrently and aggregates them.
	// Any failed fetch aborts the whole call.
	Summarize(ctx context.Context, progress chan<- ProgressUpdate, timeRange string) (*models.WrappedSummary, error)

	// CreatePlaylist creates a playlist from the user's top tracks and fills it.
	// There is no rollback: a failed track addition leaves the created playlist in place and returns an error.
	CreatePlaylist(ctx context.Context, progress chan<- ProgressUpdate, timeRange string, public bool) (*models.PlaylistResult, error)
}

// PlaylistRecorder persists the outcome of a playlist creation.
//
// Implementations must not block for long; errors are ignored by the engine.
type PlaylistRecorder interface {
	RecordPlaylist(ctx context.Context, entry *models.LedgerEntry) error
}

// WrappedEngine implements [Engine] over a single [services.Provider].
//
// It keeps no per-request state, so one engine serves concurrent requests.
type WrappedEngine struct {
	provider services.Provider
	recorder PlaylistRecorder
	now      func() time.Time
}

// NewWrappedEngine creates an engine. recorder may be nil.
func NewWrappedEngine(provider services.Provider, recorder PlaylistRecorder) *WrappedEngine {
	return &WrappedEngine{provider: provider, recorder: recorder, now: time.Now}
}

var _ Engine = (*WrappedEngine)(nil)

// sendProgress sends a progress update through the channel without blocking.
func (e *WrappedEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Summarize produces a [models.WrappedSummary] for timeRange.
//
// The three reads run concurrently behind a join barrier; the first failure cancels the others and is returned.
func (e *WrappedEngine) Summarize(ctx context.Context, progress chan<- ProgressUpdate, timeRange string) (*models.WrappedSummary, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: provider not initialized", shared.ErrServiceUnavailable)
	}
	var (
		tracks  *models.Page[models.Track]
		artists *models.Page[models.Artist]
		recent  *models.RecentlyPlayed
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e.sendProgress(progress, fetchUpdate(FetchTopTracks, timeRange))
		page, err := e.provider.GetTopTracks(gctx, timeRange, FetchLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch top tracks: %w", err)
		}
		tracks = page
		return nil
	})

	g.Go(func() error {
		e.sendProgress(progress, fetchUpdate(FetchTopArtists, timeRange))
		page, err := e.provider.GetTopArtists(gctx, timeRange, FetchLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch top artists: %w", err)
		}
		artists = page
		return nil
	})

	g.Go(func() error {
		e.sendProgress(progress, fetchUpdate(FetchRecentlyPlayed, timeRange))
		page, err := e.provider.GetRecentlyPlayed(gctx, FetchLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch recently played: %w", err)
		}
		recent = page
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := insights.Summarize(tracks, artists, recent)
	e.sendProgress(progress, aggregatedUpdate(summary))
	return summary, nil
}

// CreatePlaylist runs identity lookup, top-tracks fetch, playlist creation and track addition in sequence.
//
// Tracks are added only when the provider returned a playlist id and at least one top track carries a URI.
func (e *WrappedEngine) CreatePlaylist(ctx context.Context, progress chan<- ProgressUpdate, timeRange string, public bool) (*models.PlaylistResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: provider not initialized", shared.ErrServiceUnavailable)
	}
	e.sendProgress(progress, fetchProfileUpdate())
	user, err := e.provider.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	userID := FallbackUserID
	if user != nil && user.ID != "" {
		userID = user.ID
	}

	e.sendProgress(progress, fetchUpdate(FetchTopTracks, timeRange))
	page, err := e.provider.GetTopTracks(ctx, timeRange, FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top tracks: %w", err)
	}
	uris := TrackURIs(page)

	name, description := PlaylistName(timeRange), PlaylistDescription(timeRange)
	e.sendProgress(progress, creatingPlaylistUpdate(name))
	playlist, err := e.provider.CreatePlaylist(ctx, userID, name, public, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	result := &models.PlaylistResult{}
	if playlist != nil {
		result.PlaylistID = playlist.ID
		result.PlaylistURL = playlist.ExternalURLs.Spotify
	}
	e.sendProgress(progress, playlistCreatedUpdate(result))

	entry := &models.LedgerEntry{
		Provider:    e.provider.Name(),
		UserID:      userID,
		PlaylistID:  result.PlaylistID,
		PlaylistURL: result.PlaylistURL,
		TimeRange:   timeRange,
		Public:      public,
		Status:      models.LedgerEmpty,
		CreatedAt:   e.now(),
	}

	if result.PlaylistID == "" || len(uris) == 0 {
		e.sendProgress(progress, skipAddUpdate(len(uris)))
		e.record(ctx, entry)
		return result, nil
	}

	e.sendProgress(progress, addTracksUpdate(len(uris)))
	if _, err := e.provider.AddTracks(ctx, result.PlaylistID, uris); err != nil {
		entry.Status = models.LedgerAddFailed
		entry.Error = err.Error()
		e.record(ctx, entry)
		return nil, fmt.Errorf("playlist %s created but adding tracks failed: %w", result.PlaylistID, err)
	}

	entry.Status = models.LedgerPopulated
	entry.TrackCount = len(uris)
	e.record(ctx, entry)
	return result, nil
}

// record hands the entry to the recorder, ignoring failures. Entries without a playlist id are dropped.
func (e *WrappedEngine) record(ctx context.Context, entry *models.LedgerEntry) {
	if e.recorder == nil || entry.PlaylistID == "" {
		return
	}
	_ = e.recorder.RecordPlaylist(context.WithoutCancel(ctx), entry)
}

// TrackURIs returns the URIs of tracks that carry one, in page order.
func TrackURIs(page *models.Page[models.Track]) []string {
	if page == nil {
		return nil
	}
	uris := make([]string, 0, len(page.Items))
	for _, track := range page.Items {
		if track.URI != "" {
			uris = append(uris, track.URI)
		}
	}
	return uris
}

// PlaylistName returns "Wrapped ({timeRange})".
func PlaylistName(timeRange string) string {
	return fmt.Sprintf("Wrapped (%s)", timeRange)
}

// PlaylistDescription returns "Your top tracks for {timeRange}."
func PlaylistDescription(timeRange string) string {
	return fmt.Sprintf("Your top tracks for %s.", timeRange)
}
