package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	pool *pgxpool.Pool
}

// newPgxExpenseRepository creates a new read repository for expenses.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{pool: pool}
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, project_id, budget_item_id, expense_type, account_id, amount, expense_date, description, withdrawal_number, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var e domain.Expense
	var accountID sql.NullString // empty on historical rows
	err := row.Scan(
		&e.ExpenseID, &e.ProjectID, &e.BudgetItemID, &e.ExpenseType, &accountID,
		&e.Amount, &e.ExpenseDate, &e.Description, &e.WithdrawalNumber,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if accountID.Valid {
		e.AccountID = accountID.String
	}
	return e, err
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	e, err := scanExpense(r.pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return &e, nil
}

func (r *PgxExpenseRepository) ListExpensesByProject(ctx context.Context, projectID string, limit, offset int) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE project_id = $1 ORDER BY expense_date DESC, created_at DESC LIMIT $2 OFFSET $3;`
	rows, err := r.pool.Query(ctx, query, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses of project %s: %w", projectID, err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
