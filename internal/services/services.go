// package services defines interface Provider for music listening data sources
//
// Mock (fixture-backed HTTP API)
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
)

// Provider defines the data source contract the wrapped engine consumes.
//
// Every implementation is a separate type selected by configuration at startup. CreatePlaylist and AddTracks
// change remote state and are not idempotent: callers must not retry them blindly.
type Provider interface {
	// GetMe returns the identity of the current user.
	GetMe(ctx context.Context) (*models.User, error)

	// GetTopTracks returns the user's top tracks for the opaque time range (short_term, medium_term, long_term).
	// The time range is passed through unvalidated.
	GetTopTracks(ctx context.Context, timeRange string, limit int) (*models.Page[models.Track], error)

	// GetTopArtists returns the user's top artists for the time range.
	GetTopArtists(ctx context.Context, timeRange string, limit int) (*models.Page[models.Artist], error)

	// GetRecentlyPlayed returns the most recent play history entries in provider order.
	GetRecentlyPlayed(ctx context.Context, limit int) (*models.RecentlyPlayed, error)

	// GetTracks looks tracks up by id. Unknown ids come back as nil entries.
	// An empty id list may return an empty result without a round trip.
	GetTracks(ctx context.Context, ids []string) (*models.TracksResponse, error)

	// GetArtists looks artists up by id, with the same empty-input contract as GetTracks.
	GetArtists(ctx context.Context, ids []string) (*models.ArtistsResponse, error)

	// CreatePlaylist creates a playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*models.Playlist, error)

	// AddTracks appends track URIs to a playlist.
	// Returns [shared.ErrValidation] when uris is empty.
	AddTracks(ctx context.Context, playlistID string, uris []string) (*models.Snapshot, error)

	// Name returns the name of the provider (e.g., "mock")
	Name() string
}

// ProviderOpts carries optional dependencies for [NewProvider].
type ProviderOpts struct {
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewProvider builds the [Provider] selected by cfg.Mode.
//
// The mode is matched case-insensitively. Unsupported modes return an error wrapping [shared.ErrInvalidConfig],
// which callers treat as fatal at startup.
func NewProvider(cfg shared.ProviderConfig, opts ProviderOpts) (Provider, error) {
	switch mode := cfg.NormalizedMode(); mode {
	case shared.ModeMock:
		return NewMockProvider(cfg.BaseURL, MockProviderOpts{
			HTTPClient:        opts.HTTPClient,
			Timeout:           cfg.Timeout(),
			RequestsPerSecond: cfg.RequestsPerSecond,
			Logger:            opts.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported MODE %q", shared.ErrInvalidConfig, mode)
	}
}
