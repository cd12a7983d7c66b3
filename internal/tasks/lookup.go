package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"golang.org/x/time/rate"
)

// LookupKind selects which catalog a batch lookup reads.
type LookupKind string

const (
	LookupTracks  LookupKind = "tracks"
	LookupArtists LookupKind = "artists"
)

// MaxBatchSize is the largest id list sent in one lookup call.
const MaxBatchSize = 50

// LookupOpts contains configuration for batch lookups.
type LookupOpts struct {
	BatchSize  int     // Ids per provider call (default/max: 50)
	NumWorkers int     // Concurrent workers (default: 3, max: 10)
	RateLimit  float64 // Calls per second (default: 5)
}

// LookupResult holds the resolved records in input order.
//
// Entries are nil for ids the provider does not know and for ids in failed batches.
type LookupResult struct {
	Kind    LookupKind       `json:"kind"`
	IDs     []string         `json:"ids"`
	Tracks  []*models.Track  `json:"tracks,omitempty"`
	Artists []*models.Artist `json:"artists,omitempty"`
	Found   int              `json:"found"`
	Missing int              `json:"missing"`
	Failed  []BatchFailure   `json:"failed,omitempty"`
}

// BatchFailure records one batch whose provider call failed.
type BatchFailure struct {
	Offset int      `json:"offset"`
	IDs    []string `json:"ids"`
	Error  string   `json:"error"`
}

type lookupJob struct {
	index  int
	offset int
	ids    []string
}

type lookupBatch struct {
	job     lookupJob
	tracks  []*models.Track
	artists []*models.Artist
	err     error
}

// Lookup resolves ids in batches with a rate-limited worker pool.
//
// Failed batches are reported in [LookupResult.Failed] instead of aborting the run. An empty id list
// returns an empty result without calling the provider.
func (e *WrappedEngine) Lookup(ctx context.Context, progress chan<- ProgressUpdate, kind LookupKind, ids []string, opts LookupOpts) (*LookupResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: provider not initialized", shared.ErrServiceUnavailable)
	}
	if kind != LookupTracks && kind != LookupArtists {
		return nil, fmt.Errorf("%w: unknown lookup kind %q", shared.ErrInvalidArgument, kind)
	}

	if opts.BatchSize <= 0 || opts.BatchSize > MaxBatchSize {
		opts.BatchSize = MaxBatchSize
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &LookupResult{Kind: kind, IDs: ids}
	switch kind {
	case LookupTracks:
		result.Tracks = make([]*models.Track, len(ids))
	case LookupArtists:
		result.Artists = make([]*models.Artist, len(ids))
	}
	if len(ids) == 0 {
		return result, nil
	}

	var batches []lookupJob
	for offset := 0; offset < len(ids); offset += opts.BatchSize {
		end := min(offset+opts.BatchSize, len(ids))
		batches = append(batches, lookupJob{index: len(batches), offset: offset, ids: ids[offset:end]})
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan lookupJob, len(batches))
	results := make(chan lookupBatch, len(batches))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.lookupWorker(ctx, &wg, limiter, kind, jobs, results)
	}

	for _, job := range batches {
		jobs <- job
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for batch := range results {
		completed++
		e.sendProgress(progress, lookupBatchUpdate(completed, len(batches), kind, len(batch.job.ids), batch.err))

		if batch.err != nil {
			result.Failed = append(result.Failed, BatchFailure{
				Offset: batch.job.offset,
				IDs:    batch.job.ids,
				Error:  batch.err.Error(),
			})
			continue
		}

		for i := range batch.job.ids {
			switch kind {
			case LookupTracks:
				if i < len(batch.tracks) {
					result.Tracks[batch.job.offset+i] = batch.tracks[i]
				}
			case LookupArtists:
				if i < len(batch.artists) {
					result.Artists[batch.job.offset+i] = batch.artists[i]
				}
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("lookup interrupted: %w", err)
	}

	for i := range ids {
		if (kind == LookupTracks && result.Tracks[i] != nil) || (kind == LookupArtists && result.Artists[i] != nil) {
			result.Found++
		} else {
			result.Missing++
		}
	}
	return result, nil
}

// lookupWorker resolves batches from jobs until the channel closes or ctx is done.
func (e *WrappedEngine) lookupWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	kind LookupKind,
	jobs <-chan lookupJob,
	results chan<- lookupBatch,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- lookupBatch{job: job, err: err}
			continue
		}

		batch := lookupBatch{job: job}
		switch kind {
		case LookupTracks:
			resp, err := e.provider.GetTracks(ctx, job.ids)
			if err != nil {
				batch.err = err
			} else {
				batch.tracks = resp.Tracks
			}
		case LookupArtists:
			resp, err := e.provider.GetArtists(ctx, job.ids)
			if err != nil {
				batch.err = err
			} else {
				batch.artists = resp.Artists
			}
		}
		results <- batch
	}
}
