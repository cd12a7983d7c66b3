package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	tu "github.com/ohmpatel46/spotify-wrapped/internal/testing"
)

// catalogProvider resolves ids from an in-memory catalog and fails batches containing failID.
type catalogProvider struct {
	tu.MockProvider
	tracks  map[string]models.Track
	artists map[string]models.Artist
	failID  string
	calls   int32
	mu      sync.Mutex
	sizes   []int
}

func (c *catalogProvider) note(ids []string) error {
	atomic.AddInt32(&c.calls, 1)
	c.mu.Lock()
	c.sizes = append(c.sizes, len(ids))
	c.mu.Unlock()
	for _, id := range ids {
		if c.failID != "" && id == c.failID {
			return shared.NewProviderError("GET", "/tracks", errors.New("status 500"))
		}
	}
	return nil
}

func (c *catalogProvider) GetTracks(ctx context.Context, ids []string) (*models.TracksResponse, error) {
	if err := c.note(ids); err != nil {
		return nil, err
	}
	resp := &models.TracksResponse{}
	for _, id := range ids {
		if track, ok := c.tracks[id]; ok {
			resp.Tracks = append(resp.Tracks, &track)
		} else {
			resp.Tracks = append(resp.Tracks, nil)
		}
	}
	return resp, nil
}

func (c *catalogProvider) GetArtists(ctx context.Context, ids []string) (*models.ArtistsResponse, error) {
	if err := c.note(ids); err != nil {
		return nil, err
	}
	resp := &models.ArtistsResponse{}
	for _, id := range ids {
		if artist, ok := c.artists[id]; ok {
			resp.Artists = append(resp.Artists, &artist)
		} else {
			resp.Artists = append(resp.Artists, nil)
		}
	}
	return resp, nil
}

func newCatalog(n int) *catalogProvider {
	c := &catalogProvider{tracks: map[string]models.Track{}, artists: map[string]models.Artist{}}
	for i := range n {
		id := fmt.Sprintf("id%03d", i)
		c.tracks[id] = models.Track{ID: id, Name: "Track " + id}
		c.artists[id] = models.Artist{ID: id, Name: "Artist " + id}
	}
	return c
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range n {
		out[i] = fmt.Sprintf("id%03d", i)
	}
	return out
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	fast := LookupOpts{RateLimit: 1000}

	t.Run("batches and keeps input order", func(t *testing.T) {
		provider := newCatalog(120)
		engine := NewWrappedEngine(provider, nil)

		input := ids(120)
		result, err := engine.Lookup(ctx, nil, LookupTracks, input, fast)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := atomic.LoadInt32(&provider.calls); got != 3 {
			t.Errorf("expected 3 batches of at most 50, got %d", got)
		}
		for _, size := range provider.sizes {
			if size > MaxBatchSize {
				t.Errorf("batch of %d exceeds max", size)
			}
		}
		for i, track := range result.Tracks {
			if track == nil || track.ID != input[i] {
				t.Fatalf("expected %s at %d, got %+v", input[i], i, track)
			}
		}
		if result.Found != 120 || result.Missing != 0 {
			t.Errorf("expected 120 found, got %d found %d missing", result.Found, result.Missing)
		}
	})

	t.Run("unknown ids are missing", func(t *testing.T) {
		provider := newCatalog(2)
		result, err := NewWrappedEngine(provider, nil).Lookup(ctx, nil, LookupArtists, []string{"id000", "nope", "id001"}, fast)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Artists[1] != nil {
			t.Errorf("expected nil for unknown id, got %+v", result.Artists[1])
		}
		if result.Found != 2 || result.Missing != 1 {
			t.Errorf("expected 2 found 1 missing, got %d/%d", result.Found, result.Missing)
		}
	})

	t.Run("failed batch is reported, others succeed", func(t *testing.T) {
		provider := newCatalog(30)
		provider.failID = "id015"

		result, err := NewWrappedEngine(provider, nil).Lookup(ctx, nil, LookupTracks, ids(30), LookupOpts{BatchSize: 10, RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Failed) != 1 || result.Failed[0].Offset != 10 {
			t.Fatalf("expected one failed batch at offset 10, got %+v", result.Failed)
		}
		if result.Found != 20 || result.Missing != 10 {
			t.Errorf("expected 20 found 10 missing, got %d/%d", result.Found, result.Missing)
		}
	})

	t.Run("empty ids make no calls", func(t *testing.T) {
		provider := newCatalog(1)
		result, err := NewWrappedEngine(provider, nil).Lookup(ctx, nil, LookupTracks, nil, fast)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if atomic.LoadInt32(&provider.calls) != 0 {
			t.Error("expected no provider calls")
		}
		if result.Found != 0 || len(result.Tracks) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewWrappedEngine(newCatalog(1), nil).Lookup(ctx, nil, LookupKind("albums"), ids(1), fast)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewWrappedEngine(newCatalog(5), nil).Lookup(cctx, nil, LookupTracks, ids(5), fast)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("reports one update per batch", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		if _, err := NewWrappedEngine(newCatalog(100), nil).Lookup(ctx, progress, LookupTracks, ids(100), LookupOpts{BatchSize: 25, RateLimit: 1000}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		count := 0
		for update := range progress {
			if update.Phase != Lookup || update.Total != 4 {
				t.Errorf("unexpected update %+v", update)
			}
			count++
		}
		if count != 4 {
			t.Errorf("expected 4 updates, got %d", count)
		}
	})
}
