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

type PgxInstallmentRepository struct {
	pool *pgxpool.Pool
}

// newPgxInstallmentRepository creates a new read repository for installment
// schedules.
func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepository {
	return &PgxInstallmentRepository{pool: pool}
}

var _ portsrepo.InstallmentRepository = (*PgxInstallmentRepository)(nil)

const installmentColumns = `installment_id, project_id, unit_id, customer_id, sequence, due_date, amount, status, paid_at, account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanInstallment(row pgx.Row) (domain.Installment, error) {
	var i domain.Installment
	err := row.Scan(
		&i.InstallmentID, &i.ProjectID, &i.UnitID, &i.CustomerID, &i.Sequence, &i.DueDate,
		&i.Amount, &i.Status, &i.PaidAt, &i.AccountID,
		&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy,
	)
	return i, err
}

func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`
	inst, err := scanInstallment(r.pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, installmentID)
		}
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}
	return &inst, nil
}

func (r *PgxInstallmentRepository) ListInstallmentsByUnit(ctx context.Context, unitID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE unit_id = $1 ORDER BY sequence;`
	return r.queryInstallments(ctx, query, unitID)
}

func (r *PgxInstallmentRepository) ListInstallmentsByCustomer(ctx context.Context, customerID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE customer_id = $1 ORDER BY due_date, sequence;`
	return r.queryInstallments(ctx, query, customerID)
}

func (r *PgxInstallmentRepository) queryInstallments(ctx context.Context, query string, arg any) ([]domain.Installment, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	installments := make([]domain.Installment, 0)
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}
