package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ohmpatel46/spotify-wrapped/internal/models"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
)

const ledgerTable = "playlist_ledger"

// PlaylistLedger stores one row per playlist creation.
//
// It implements tasks.PlaylistRecorder. Rows are append-only: creation writes are not idempotent upstream,
// so duplicates are kept and can be audited.
type PlaylistLedger struct {
	db *sql.DB
}

// NewPlaylistLedger creates a new PlaylistLedger with the given database connection
func NewPlaylistLedger(db *sql.DB) *PlaylistLedger {
	return &PlaylistLedger{db: db}
}

// RecordPlaylist inserts entry, assigning its ID, sequence and (when zero) CreatedAt.
func (l *PlaylistLedger) RecordPlaylist(ctx context.Context, entry *models.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	sequence, err := NextSequence(ctx, l.db, ledgerTable)
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.ID = shared.GenerateID()
	entry.Sequence = sequence
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO playlist_ledger (id, sequence, provider, user_id, playlist_id, playlist_url, time_range, public, track_count, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = l.db.ExecContext(ctx, query,
		entry.ID,
		entry.Sequence,
		entry.Provider,
		entry.UserID,
		entry.PlaylistID,
		entry.PlaylistURL,
		entry.TimeRange,
		entry.Public,
		entry.TrackCount,
		string(entry.Status),
		entry.Error,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return nil
}

// List returns up to limit entries, newest first. A non-positive limit returns every entry.
func (l *PlaylistLedger) List(ctx context.Context, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, sequence, provider, user_id, playlist_id, playlist_url, time_range, public, track_count, status, error, created_at
		FROM playlist_ledger
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	entries := []*models.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger: %w", err)
	}

	return entries, nil
}

// ByPlaylistID returns the entry recorded for playlistID.
func (l *PlaylistLedger) ByPlaylistID(ctx context.Context, playlistID string) (*models.LedgerEntry, error) {
	query := `
		SELECT id, sequence, provider, user_id, playlist_id, playlist_url, time_range, public, track_count, status, error, created_at
		FROM playlist_ledger
		WHERE playlist_id = ?
		ORDER BY sequence DESC
		LIMIT 1
	`

	entry, err := scanEntry(l.db.QueryRowContext(ctx, query, playlistID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ledger entry not found for playlist %s", playlistID)
	}
	return entry, err
}

// Count returns the number of recorded playlists.
func (l *PlaylistLedger) Count(ctx context.Context) (int, error) {
	var count int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM playlist_ledger").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.LedgerEntry, error) {
	var (
		entry  models.LedgerEntry
		status string
	)

	err := s.Scan(
		&entry.ID,
		&entry.Sequence,
		&entry.Provider,
		&entry.UserID,
		&entry.PlaylistID,
		&entry.PlaylistURL,
		&entry.TimeRange,
		&entry.Public,
		&entry.TrackCount,
		&status,
		&entry.Error,
		&entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	entry.Status = models.LedgerStatus(status)
	return &entry, nil
}
