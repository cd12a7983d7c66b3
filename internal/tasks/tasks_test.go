package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	tu "github.com/ohmpatel46/spotify-wrapped/internal/testing"
)

type mockRecorder struct {
	mu      sync.Mutex
	entries []*models.LedgerEntry
	err     error
}

func (m *mockRecorder) RecordPlaylist(ctx context.Context, entry *models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries = append(m.entries, &copied)
	return m.err
}

func wrappedFixture() *tu.MockProvider {
	var tracks []models.Track
	for i := range 20 {
		track := models.Track{
			ID:         fmt.Sprintf("t%d", i),
			Name:       fmt.Sprintf("Song %d", i),
			URI:        fmt.Sprintf("spotify:track:t%d", i),
			Popularity: tu.Pop(50),
		}
		if i == 0 {
			track.Name = "Song A"
			track.Popularity = tu.Pop(95)
		}
		tracks = append(tracks, track)
	}

	var artists []models.Artist
	for i := range 20 {
		artist := models.Artist{ID: fmt.Sprintf("a%d", i), Name: fmt.Sprintf("Artist %d", i)}
		if i == 0 {
			artist.Name = "Artist A"
			artist.Genres = []string{"pop", "pop", "rock"}
		}
		artists = append(artists, artist)
	}

	recent := &models.RecentlyPlayed{}
	for _, ts := range []string{
		"2024-05-01T21:00:00Z", "2024-05-01T20:10:00Z", "2024-05-01T19:45:00Z",
		"2024-05-01T08:00:00Z", "2024-05-01T01:30:00Z", "not-a-time",
	} {
		recent.Items = append(recent.Items, models.PlayHistory{PlayedAt: ts, Track: tracks[0]})
	}

	return &tu.MockProvider{
		User:           &models.User{ID: "mock_user_123", DisplayName: "Mock User"},
		TopTracks:      &models.Page[models.Track]{Items: tracks, Limit: 20},
		TopArtists:     &models.Page[models.Artist]{Items: artists, Limit: 20},
		RecentlyPlayed: recent,
		Playlist: &models.Playlist{
			ID:           "mock_playlist_1234abcd",
			ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/playlist/mock_playlist_1234abcd"},
		},
	}
}

func TestWrappedEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Summarize", func(t *testing.T) {
		t.Run("end to end", func(t *testing.T) {
			provider := wrappedFixture()
			engine := NewWrappedEngine(provider, nil)

			summary, err := engine.Summarize(ctx, nil, "short_term")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if summary.TopTracks[0].Name != "Song A" {
				t.Errorf("expected top track Song A, got %s", summary.TopTracks[0].Name)
			}
			if summary.GenreDNA[0] != "pop" {
				t.Errorf("expected pop first, got %v", summary.GenreDNA)
			}
			// (95 + 19*50) / 20 = 52.25
			if summary.MainstreamVsNiche.AveragePopularity != 52.25 || summary.MainstreamVsNiche.Label != "Balanced" {
				t.Errorf("unexpected verdict %+v", summary.MainstreamVsNiche)
			}
			if summary.TimeOfDayVibe != models.VibeEvening {
				t.Errorf("expected evening, got %s", summary.TimeOfDayVibe)
			}
			if !strings.Contains(summary.Headline, "Song A") {
				t.Errorf("expected headline to mention Song A, got %q", summary.Headline)
			}
			want := "Top artist Artist A and top track Song A give a balanced vibe, especially in the evening."
			if summary.Headline != want {
				t.Errorf("expected %q, got %q", want, summary.Headline)
			}
		})

		t.Run("fetches each payload once with the time range", func(t *testing.T) {
			provider := wrappedFixture()
			if _, err := NewWrappedEngine(provider, nil).Summarize(ctx, nil, "long_term"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			for _, name := range []string{"GetTopTracks", "GetTopArtists", "GetRecentlyPlayed"} {
				if provider.Calls(name) != 1 {
					t.Errorf("expected 1 %s call, got %d", name, provider.Calls(name))
				}
			}
			if provider.Calls("GetMe") != 0 || provider.Calls("CreatePlaylist") != 0 {
				t.Error("summary must not touch identity or writes")
			}
			if provider.TimeRanges[0] != "long_term" {
				t.Errorf("expected long_term, got %v", provider.TimeRanges)
			}
		})

		t.Run("any failed fetch aborts", func(t *testing.T) {
			cause := shared.NewProviderError("GET", "/me/top/artists", errors.New("status 500"))

			tc := []struct {
				name  string
				setup func(p *tu.MockProvider)
				want  string
			}{
				{name: "top tracks", setup: func(p *tu.MockProvider) { p.TopTracksErr = cause }, want: "top tracks"},
				{name: "top artists", setup: func(p *tu.MockProvider) { p.TopArtistsErr = cause }, want: "top artists"},
				{name: "recently played", setup: func(p *tu.MockProvider) { p.RecentlyPlayedErr = cause }, want: "recently played"},
			}

			for _, tt := range tc {
				t.Run(tt.name, func(t *testing.T) {
					provider := wrappedFixture()
					tt.setup(provider)

					summary, err := NewWrappedEngine(provider, nil).Summarize(ctx, nil, "short_term")
					if summary != nil {
						t.Errorf("expected no partial summary, got %+v", summary)
					}
					if !errors.Is(err, shared.ErrProvider) {
						t.Fatalf("expected ErrProvider, got %v", err)
					}
					if !strings.Contains(err.Error(), tt.want) {
						t.Errorf("expected %q in %q", tt.want, err.Error())
					}
				})
			}
		})

		t.Run("reports progress", func(t *testing.T) {
			progress := make(chan ProgressUpdate, 10)
			if _, err := NewWrappedEngine(wrappedFixture(), nil).Summarize(ctx, progress, "short_term"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			close(progress)

			phases := map[Phase]bool{}
			for update := range progress {
				phases[update.Phase] = true
			}
			for _, phase := range []Phase{FetchTopTracks, FetchTopArtists, FetchRecentlyPlayed, Aggregate} {
				if !phases[phase] {
					t.Errorf("expected %s update", phase)
				}
			}
		})

		t.Run("full progress channel does not block", func(t *testing.T) {
			progress := make(chan ProgressUpdate)
			if _, err := NewWrappedEngine(wrappedFixture(), nil).Summarize(ctx, progress, "short_term"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("nil provider", func(t *testing.T) {
			_, err := NewWrappedEngine(nil, nil).Summarize(ctx, nil, "short_term")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		t.Run("creates and fills playlist", func(t *testing.T) {
			provider := wrappedFixture()
			recorder := &mockRecorder{}

			result, err := NewWrappedEngine(provider, recorder).CreatePlaylist(ctx, nil, "medium_term", true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.PlaylistID != "mock_playlist_1234abcd" {
				t.Errorf("expected playlist id, got %s", result.PlaylistID)
			}
			if result.PlaylistURL != "https://open.spotify.com/playlist/mock_playlist_1234abcd" {
				t.Errorf("unexpected URL %s", result.PlaylistURL)
			}
			if provider.CreatedFor != "mock_user_123" {
				t.Errorf("expected owner mock_user_123, got %s", provider.CreatedFor)
			}
			if provider.CreatedName != "Wrapped (medium_term)" {
				t.Errorf("unexpected name %q", provider.CreatedName)
			}
			if provider.CreatedDesc != "Your top tracks for medium_term." {
				t.Errorf("unexpected description %q", provider.CreatedDesc)
			}
			if !provider.CreatedPub {
				t.Error("expected public playlist")
			}
			if provider.AddedTo != result.PlaylistID {
				t.Errorf("expected tracks added to %s, got %s", result.PlaylistID, provider.AddedTo)
			}
			if len(provider.AddedURIs) != 20 || provider.AddedURIs[0] != "spotify:track:t0" {
				t.Errorf("unexpected uris %v", provider.AddedURIs)
			}

			if len(recorder.entries) != 1 {
				t.Fatalf("expected 1 ledger entry, got %d", len(recorder.entries))
			}
			entry := recorder.entries[0]
			if entry.Status != models.LedgerPopulated || entry.TrackCount != 20 || entry.Provider != "test" {
				t.Errorf("unexpected ledger entry %+v", entry)
			}
		})

		t.Run("runs strictly in order", func(t *testing.T) {
			provider := wrappedFixture()
			provider.GetMeErr = shared.NewProviderError("GET", "/me", errors.New("down"))

			_, err := NewWrappedEngine(provider, nil).CreatePlaylist(ctx, nil, "short_term", false)
			if !errors.Is(err, shared.ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
			if provider.TotalCalls() != 1 {
				t.Errorf("expected only GetMe to run, got %d calls", provider.TotalCalls())
			}
		})

		t.Run("falls back to mock_user", func(t *testing.T) {
			provider := wrappedFixture()
			provider.User = &models.User{DisplayName: "No ID"}

			if _, err := NewWrappedEngine(provider, nil).CreatePlaylist(ctx, nil, "short_term", false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if provider.CreatedFor != FallbackUserID {
				t.Errorf("expected %s, got %s", FallbackUserID, provider.CreatedFor)
			}
		})

		t.Run("no uris skips track addition", func(t *testing.T) {
			provider := wrappedFixture()
			provider.TopTracks = &models.Page[models.Track]{Items: []models.Track{{ID: "t1", Name: "No URI"}}}
			recorder := &mockRecorder{}

			result, err := NewWrappedEngine(provider, recorder).CreatePlaylist(ctx, nil, "short_term", false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if provider.Calls("CreatePlaylist") != 1 {
				t.Errorf("expected playlist to be created")
			}
			if provider.Calls("AddTracks") != 0 {
				t.Errorf("expected no AddTracks call, got %d", provider.Calls("AddTracks"))
			}
			if result.PlaylistID == "" {
				t.Error("expected playlist id")
			}
			if len(recorder.entries) != 1 || recorder.entries[0].Status != models.LedgerEmpty {
				t.Errorf("expected empty ledger entry, got %+v", recorder.entries)
			}
		})

		t.Run("no playlist id skips track addition", func(t *testing.T) {
			provider := wrappedFixture()
			provider.Playlist = &models.Playlist{}
			recorder := &mockRecorder{}

			result, err := NewWrappedEngine(provider, recorder).CreatePlaylist(ctx, nil, "short_term", false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if provider.Calls("AddTracks") != 0 {
				t.Errorf("expected no AddTracks call")
			}
			if result.PlaylistID != "" || result.PlaylistURL != "" {
				t.Errorf("expected empty result, got %+v", result)
			}
			if len(recorder.entries) != 0 {
				t.Errorf("expected nothing recorded without an id, got %d", len(recorder.entries))
			}
		})

		t.Run("add failure surfaces without rollback", func(t *testing.T) {
			provider := wrappedFixture()
			provider.AddErr = shared.NewProviderError("POST", "/playlists/mock_playlist_1234abcd/tracks", errors.New("status 502"))
			recorder := &mockRecorder{}

			result, err := NewWrappedEngine(provider, recorder).CreatePlaylist(ctx, nil, "short_term", false)
			if result != nil {
				t.Errorf("expected no result, got %+v", result)
			}
			pe, ok := shared.IsProviderError(err)
			if !ok {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if !strings.HasSuffix(pe.Path, "/tracks") {
				t.Errorf("expected tracks path, got %s", pe.Path)
			}
			if !strings.Contains(err.Error(), "mock_playlist_1234abcd") {
				t.Errorf("expected playlist id in error, got %q", err.Error())
			}
			if provider.Calls("CreatePlaylist") != 1 {
				t.Error("expected the playlist to stay created")
			}
			if len(recorder.entries) != 1 || recorder.entries[0].Status != models.LedgerAddFailed {
				t.Errorf("expected add_failed entry, got %+v", recorder.entries)
			}
		})

		t.Run("create failure", func(t *testing.T) {
			provider := wrappedFixture()
			provider.CreateErr = shared.NewProviderError("POST", "/users/mock_user_123/playlists", errors.New("status 400"))

			_, err := NewWrappedEngine(provider, nil).CreatePlaylist(ctx, nil, "short_term", false)
			if !errors.Is(err, shared.ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
			if provider.Calls("AddTracks") != 0 {
				t.Error("expected no AddTracks call")
			}
		})

		t.Run("recorder errors are ignored", func(t *testing.T) {
			recorder := &mockRecorder{err: errors.New("disk full")}
			if _, err := NewWrappedEngine(wrappedFixture(), recorder).CreatePlaylist(ctx, nil, "short_term", false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})
}

func TestTrackURIs(t *testing.T) {
	page := &models.Page[models.Track]{Items: []models.Track{
		{URI: "spotify:track:1"}, {URI: ""}, {URI: "spotify:track:3"},
	}}

	got := TrackURIs(page)
	if len(got) != 2 || got[0] != "spotify:track:1" || got[1] != "spotify:track:3" {
		t.Errorf("unexpected uris %v", got)
	}

	if TrackURIs(nil) != nil {
		t.Error("expected nil for nil page")
	}
}

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		FetchProfile:        "fetch_profile",
		FetchTopTracks:      "fetch_top_tracks",
		FetchRecentlyPlayed: "fetch_recently_played",
		AddTracks:           "add_tracks",
		Phase(99):           "",
	}
	for phase, want := range tc {
		if got := phase.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
