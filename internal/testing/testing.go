// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
)

// MockProvider is a test double for [services.Provider].
//
// Payload fields are returned as-is; the matching Err field, when set, is returned instead.
// Every call is counted so tests can assert which operations ran.
type MockProvider struct {
	mu sync.Mutex

	User           *models.User
	TopTracks      *models.Page[models.Track]
	TopArtists     *models.Page[models.Artist]
	RecentlyPlayed *models.RecentlyPlayed
	Tracks         *models.TracksResponse
	Artists        *models.ArtistsResponse
	Playlist       *models.Playlist
	Snapshot       *models.Snapshot

	GetMeErr          error
	TopTracksErr      error
	TopArtistsErr     error
	RecentlyPlayedErr error
	TracksErr         error
	ArtistsErr        error
	CreateErr         error
	AddErr            error

	calls map[string]int

	// Arguments of the most recent write calls
	CreatedFor  string
	CreatedName string
	CreatedDesc string
	CreatedPub  bool
	AddedTo     string
	AddedURIs   []string
	TimeRanges  []string
}

func (m *MockProvider) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

// Calls returns how many times the named method ran.
func (m *MockProvider) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// TotalCalls returns the number of calls across all methods.
func (m *MockProvider) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MockProvider) Name() string { return "test" }

func (m *MockProvider) GetMe(ctx context.Context) (*models.User, error) {
	m.record("GetMe")
	if m.GetMeErr != nil {
		return nil, m.GetMeErr
	}
	if m.User == nil {
		return &models.User{}, nil
	}
	return m.User, nil
}

func (m *MockProvider) GetTopTracks(ctx context.Context, timeRange string, limit int) (*models.Page[models.Track], error) {
	m.record("GetTopTracks")
	m.mu.Lock()
	m.TimeRanges = append(m.TimeRanges, timeRange)
	m.mu.Unlock()
	if m.TopTracksErr != nil {
		return nil, m.TopTracksErr
	}
	if m.TopTracks == nil {
		return &models.Page[models.Track]{}, nil
	}
	return m.TopTracks, nil
}

func (m *MockProvider) GetTopArtists(ctx context.Context, timeRange string, limit int) (*models.Page[models.Artist], error) {
	m.record("GetTopArtists")
	if m.TopArtistsErr != nil {
		return nil, m.TopArtistsErr
	}
	if m.TopArtists == nil {
		return &models.Page[models.Artist]{}, nil
	}
	return m.TopArtists, nil
}

func (m *MockProvider) GetRecentlyPlayed(ctx context.Context, limit int) (*models.RecentlyPlayed, error) {
	m.record("GetRecentlyPlayed")
	if m.RecentlyPlayedErr != nil {
		return nil, m.RecentlyPlayedErr
	}
	if m.RecentlyPlayed == nil {
		return &models.RecentlyPlayed{}, nil
	}
	return m.RecentlyPlayed, nil
}

func (m *MockProvider) GetTracks(ctx context.Context, ids []string) (*models.TracksResponse, error) {
	m.record("GetTracks")
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	if m.Tracks == nil {
		return &models.TracksResponse{}, nil
	}
	return m.Tracks, nil
}

func (m *MockProvider) GetArtists(ctx context.Context, ids []string) (*models.ArtistsResponse, error) {
	m.record("GetArtists")
	if m.ArtistsErr != nil {
		return nil, m.ArtistsErr
	}
	if m.Artists == nil {
		return &models.ArtistsResponse{}, nil
	}
	return m.Artists, nil
}

func (m *MockProvider) CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*models.Playlist, error) {
	m.record("CreatePlaylist")
	m.mu.Lock()
	m.CreatedFor, m.CreatedName, m.CreatedDesc, m.CreatedPub = userID, name, description, public
	m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Playlist == nil {
		return &models.Playlist{}, nil
	}
	return m.Playlist, nil
}

func (m *MockProvider) AddTracks(ctx context.Context, playlistID string, uris []string) (*models.Snapshot, error) {
	m.record("AddTracks")
	m.mu.Lock()
	m.AddedTo, m.AddedURIs = playlistID, append([]string(nil), uris...)
	m.mu.Unlock()
	if len(uris) == 0 {
		return nil, shared.ErrValidation
	}
	if m.AddErr != nil {
		return nil, m.AddErr
	}
	if m.Snapshot == nil {
		return &models.Snapshot{SnapshotID: "snapshot_test"}, nil
	}
	return m.Snapshot, nil
}

// Pop returns a pointer to p for optional popularity fields.
func Pop(p int) *int {
	return &p
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.Requests++
	return m.response, m.err
}

// JSONResponse builds an [http.Response] with the given status and body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
