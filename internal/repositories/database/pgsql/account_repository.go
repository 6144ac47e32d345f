package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, kind, balance, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID, &acc.Name, &acc.Kind, &acc.Balance, &acc.Description, &acc.IsActive,
		&acc.CreatedAt, &acc.CreatedBy, &acc.LastUpdatedAt, &acc.LastUpdatedBy,
	)
	return acc, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// ListAccounts retrieves accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// UpdateAccount rewrites name and description. The balance is deliberately
// not touched here; only ledger transactions move it.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, description = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $5;
	`
	tag, err := r.pool.Exec(ctx, query,
		account.Name, account.Description, account.LastUpdatedAt, account.LastUpdatedBy, account.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

// DeactivateAccount soft-deletes an account. History referencing it stays
// intact.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID, actorID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3 AND is_active = TRUE;
	`
	tag, err := r.pool.Exec(ctx, query, now, actorID, accountID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found or already inactive", apperrors.ErrNotFound, accountID)
	}
	return nil
}
