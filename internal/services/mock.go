// Mock [Provider] implementation
//
// Talks to the fixture-backed provider API (see internal/fixtures) over plain HTTP:
// reads are GET with query parameters, writes are POST with a JSON body.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"golang.org/x/time/rate"
)

// MockProviderOpts contains optional settings for [NewMockProvider].
type MockProviderOpts struct {
	HTTPClient        *http.Client  // Defaults to a client with Timeout
	Timeout           time.Duration // Per-request timeout when HTTPClient is nil
	RequestsPerSecond float64       // Client-side throttle; zero disables it
	Logger            *log.Logger
}

// MockProvider implements [Provider] against the fixture-backed HTTP API.
//
// It holds no mutable state besides the optional limiter and is safe for concurrent use.
type MockProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider rooted at baseURL, defaulting to [shared.DefaultBaseURL].
func NewMockProvider(baseURL string, opts MockProviderOpts) *MockProvider {
	if baseURL == "" {
		baseURL = shared.DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = shared.DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	p := &MockProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     shared.WithLogger(opts.Logger, "provider", "mock"),
	}
	if opts.RequestsPerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return p
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return shared.ModeMock
}

// BaseURL returns the root every path is resolved against.
func (p *MockProvider) BaseURL() string {
	return p.baseURL
}

// GetMe calls GET /me.
func (p *MockProvider) GetMe(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := p.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetTopTracks calls GET /me/top/tracks.
func (p *MockProvider) GetTopTracks(ctx context.Context, timeRange string, limit int) (*models.Page[models.Track], error) {
	var page models.Page[models.Track]
	if err := p.get(ctx, "/me/top/tracks", rangeParams(timeRange, limit), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTopArtists calls GET /me/top/artists.
func (p *MockProvider) GetTopArtists(ctx context.Context, timeRange string, limit int) (*models.Page[models.Artist], error) {
	var page models.Page[models.Artist]
	if err := p.get(ctx, "/me/top/artists", rangeParams(timeRange, limit), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetRecentlyPlayed calls GET /me/player/recently-played.
func (p *MockProvider) GetRecentlyPlayed(ctx context.Context, limit int) (*models.RecentlyPlayed, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var recent models.RecentlyPlayed
	if err := p.get(ctx, "/me/player/recently-played", params, &recent); err != nil {
		return nil, err
	}
	return &recent, nil
}

// GetTracks calls GET /tracks?ids=a,b,c. Empty input returns an empty result without a request.
func (p *MockProvider) GetTracks(ctx context.Context, ids []string) (*models.TracksResponse, error) {
	if len(ids) == 0 {
		return &models.TracksResponse{Tracks: []*models.Track{}}, nil
	}

	var resp models.TracksResponse
	if err := p.get(ctx, "/tracks", idParams(ids), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetArtists calls GET /artists?ids=a,b,c. Empty input returns an empty result without a request.
func (p *MockProvider) GetArtists(ctx context.Context, ids []string) (*models.ArtistsResponse, error) {
	if len(ids) == 0 {
		return &models.ArtistsResponse{Artists: []*models.Artist{}}, nil
	}

	var resp models.ArtistsResponse
	if err := p.get(ctx, "/artists", idParams(ids), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type createPlaylistBody struct {
	Name        string `json:"name"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

// CreatePlaylist calls POST /users/{userID}/playlists.
func (p *MockProvider) CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	body := createPlaylistBody{Name: name, Public: public, Description: description}

	var playlist models.Playlist
	if err := p.post(ctx, endpoint, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

type addTracksBody struct {
	URIs []string `json:"uris"`
}

// AddTracks calls POST /playlists/{playlistID}/tracks.
func (p *MockProvider) AddTracks(ctx context.Context, playlistID string, uris []string) (*models.Snapshot, error) {
	if len(uris) == 0 {
		return nil, fmt.Errorf("%w: uris must not be empty", shared.ErrValidation)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var snapshot models.Snapshot
	if err := p.post(ctx, endpoint, addTracksBody{URIs: uris}, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (p *MockProvider) get(ctx context.Context, path string, params url.Values, result any) error {
	return p.doRequest(ctx, http.MethodGet, path, params, nil, result)
}

func (p *MockProvider) post(ctx context.Context, path string, body, result any) error {
	return p.doRequest(ctx, http.MethodPost, path, nil, body, result)
}

// doRequest performs one call and converts every failure into a [shared.ProviderError].
func (p *MockProvider) doRequest(ctx context.Context, method, path string, params url.Values, body, result any) error {
	fail := func(err error) error {
		p.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return shared.NewProviderError(method, path, err)
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("rate limiter: %w", err))
		}
	}

	apiURL := p.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(fmt.Errorf("failed to encode body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	p.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fail(fmt.Errorf("status %d: %s", resp.StatusCode, errResp.Detail))
		}
		return fail(fmt.Errorf("status %d", resp.StatusCode))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fail(fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}

func rangeParams(timeRange string, limit int) url.Values {
	params := url.Values{}
	params.Set("time_range", timeRange)
	params.Set("limit", strconv.Itoa(limit))
	return params
}

func idParams(ids []string) url.Values {
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	return params
}
