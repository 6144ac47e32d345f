package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	"github.com/buildra/construction_finance_app/internal/utils/pagination"
)

type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

// newPgxJournalRepository creates a new read-only repository over the ledger.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const journalColumns = `entry_id, entry_date, description, debit_account_id, debit_account_name, credit_account_id, credit_account_name, amount, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID, &e.EntryDate, &e.Description,
		&e.DebitAccountID, &e.DebitAccountName, &e.CreditAccountID, &e.CreditAccountName,
		&e.Amount, &e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	return e, err
}

// FindEntryByID retrieves one ledger entry.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanJournalEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return &entry, nil
}

// ListEntries pages the ledger newest-first with a keyset continuation token
// over (entry_date, created_at).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` WHERE (entry_date, created_at) < ($1, $2)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	return r.queryEntriesPage(ctx, query, args, limit)
}

// ListEntriesByAccount pages entries touching one account on either side.
func (r *PgxJournalRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE (debit_account_id = $1 OR credit_account_id = $1)`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	return r.queryEntriesPage(ctx, query, args, limit)
}

// queryEntriesPage fetches limit+1 rows; a full overfetch means another page
// exists and the last returned row becomes the continuation token.
func (r *PgxJournalRepository) queryEntriesPage(ctx context.Context, query string, args []any, limit int) ([]domain.JournalEntry, *string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, limit)
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read journal entries: %w", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
	}
	return entries, nextTokenVal, nil
}
