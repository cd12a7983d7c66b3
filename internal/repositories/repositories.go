// package repositories provides SQLite persistence for the playlist ledger.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
)

// sequenced lists the tables that have a "{table}_sequence" counter row created by migrations.
var sequenced = map[string]bool{
	ledgerTable: true,
}

// NextSequence increments and returns the counter for table in a single statement.
//
// Ledger rows carry the sequence next to their UUID so history reads as #1, #2, ...
// Table names are interpolated into SQL, so only names in [sequenced] are accepted.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	if !sequenced[table] {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	err := db.QueryRowContext(ctx, query).Scan(&sequence)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("sequence for %s is not initialized", table)
	case err != nil:
		return 0, fmt.Errorf("failed to increment %s sequence: %w", table, err)
	}
	return sequence, nil
}
