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
)

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// newPgxUserRepository creates a new repository for application users.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, username, pin_hash, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID, &u.Name, &u.Username, &u.PINHash, &u.IsActive,
		&u.CreatedAt, &u.CreatedBy, &u.LastUpdatedAt, &u.LastUpdatedBy,
	)
	return u, err
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	u, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return &u, nil
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, username)
		}
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}
	return &u, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, username, pin_hash, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID, user.Name, user.Username, user.PINHash, user.IsActive,
		user.CreatedAt, user.CreatedBy, user.LastUpdatedAt, user.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("save user %s", user.UserID))
	}
	return nil
}
