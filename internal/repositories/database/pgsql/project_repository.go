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

type PgxProjectRepository struct {
	pool *pgxpool.Pool
}

// newPgxProjectRepository creates a new repository for project aggregates.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepository {
	return &PgxProjectRepository{pool: pool}
}

var _ portsrepo.ProjectRepository = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, name, estimated_costs, spent, collected_from_sales, collected_from_partners, fund_account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ProjectID, &p.Name, &p.EstimatedCosts, &p.Spent, &p.CollectedFromSales, &p.CollectedFromPartners,
		&p.FundAccountID, &p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

// FindProjectByID loads a project with its budget items, units and partners.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`
	project, err := scanProject(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}

	if project.BudgetItems, err = r.listBudgetItems(ctx, projectID); err != nil {
		return nil, err
	}
	if project.Units, err = r.ListUnits(ctx, projectID); err != nil {
		return nil, err
	}
	if project.Partners, err = r.ListPartners(ctx, projectID); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects retrieves project headers (no child collections) ordered by
// creation time, newest first.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

const budgetItemColumns = `budget_item_id, project_id, global_budget_item_id, name, allocated_amount, spent_amount, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxProjectRepository) listBudgetItems(ctx context.Context, projectID string) ([]domain.BudgetItem, error) {
	query := `SELECT ` + budgetItemColumns + ` FROM budget_items WHERE project_id = $1 ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget items of project %s: %w", projectID, err)
	}
	defer rows.Close()

	items := make([]domain.BudgetItem, 0)
	for rows.Next() {
		var b domain.BudgetItem
		err := rows.Scan(
			&b.BudgetItemID, &b.ProjectID, &b.GlobalBudgetItemID, &b.Name, &b.AllocatedAmount, &b.SpentAmount,
			&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget item row: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// FindBudgetItem retrieves one budget line scoped to its project.
func (r *PgxProjectRepository) FindBudgetItem(ctx context.Context, projectID, budgetItemID string) (*domain.BudgetItem, error) {
	query := `SELECT ` + budgetItemColumns + ` FROM budget_items WHERE project_id = $1 AND budget_item_id = $2;`
	var b domain.BudgetItem
	err := r.pool.QueryRow(ctx, query, projectID, budgetItemID).Scan(
		&b.BudgetItemID, &b.ProjectID, &b.GlobalBudgetItemID, &b.Name, &b.AllocatedAmount, &b.SpentAmount,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: budget item %s in project %s", apperrors.ErrNotFound, budgetItemID, projectID)
		}
		return nil, fmt.Errorf("failed to find budget item %s: %w", budgetItemID, err)
	}
	return &b, nil
}

const unitColumns = `unit_id, project_id, code, area, status, suggested_price, actual_price, customer_id, paid_amount, installment_count, booking_date, sale_date, created_at, created_by, last_updated_at, last_updated_by`

func scanUnit(row pgx.Row) (domain.Unit, error) {
	var u domain.Unit
	err := row.Scan(
		&u.UnitID, &u.ProjectID, &u.Code, &u.Area, &u.Status, &u.SuggestedPrice,
		&u.ActualPrice, &u.CustomerID, &u.PaidAmount, &u.InstallmentCount, &u.BookingDate, &u.SaleDate,
		&u.CreatedAt, &u.CreatedBy, &u.LastUpdatedAt, &u.LastUpdatedBy,
	)
	return u, err
}

// FindUnit retrieves one unit scoped to its project.
func (r *PgxProjectRepository) FindUnit(ctx context.Context, projectID, unitID string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE project_id = $1 AND unit_id = $2;`
	unit, err := scanUnit(r.pool.QueryRow(ctx, query, projectID, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unit %s in project %s", apperrors.ErrNotFound, unitID, projectID)
		}
		return nil, fmt.Errorf("failed to find unit %s: %w", unitID, err)
	}
	return &unit, nil
}

// ListUnits retrieves all units of a project ordered by code.
func (r *PgxProjectRepository) ListUnits(ctx context.Context, projectID string) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE project_id = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units of project %s: %w", projectID, err)
	}
	defer rows.Close()

	units := make([]domain.Unit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// ListPartners retrieves a project's partner map.
func (r *PgxProjectRepository) ListPartners(ctx context.Context, projectID string) ([]domain.ProjectPartner, error) {
	query := `
		SELECT partner_id, project_id, name, share_percent, total_investment, created_at, created_by, last_updated_at, last_updated_by
		FROM project_partners
		WHERE project_id = $1
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners of project %s: %w", projectID, err)
	}
	defer rows.Close()

	partners := make([]domain.ProjectPartner, 0)
	for rows.Next() {
		var p domain.ProjectPartner
		err := rows.Scan(
			&p.PartnerID, &p.ProjectID, &p.Name, &p.SharePercent, &p.TotalInvestment,
			&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

// InsertUnit registers a new unit.
func (r *PgxProjectRepository) InsertUnit(ctx context.Context, unit domain.Unit) error {
	query := `
		INSERT INTO units (unit_id, project_id, code, area, status, suggested_price, paid_amount, installment_count, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		unit.UnitID, unit.ProjectID, unit.Code, unit.Area, unit.Status, unit.SuggestedPrice,
		unit.PaidAmount, unit.InstallmentCount,
		unit.CreatedAt, unit.CreatedBy, unit.LastUpdatedAt, unit.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("insert unit %s", unit.UnitID))
	}
	return nil
}
