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

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for customers, suppliers and
// employees.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepository {
	return &PgxPartyRepository{pool: pool}
}

var _ portsrepo.PartyRepository = (*PgxPartyRepository)(nil)

const customerColumns = `customer_id, name, phone, balance, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`
	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&c.CustomerID, &c.Name, &c.Phone, &c.Balance,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return &c, nil
}

func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, phone, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		customer.CustomerID, customer.Name, customer.Phone, customer.Balance,
		customer.CreatedAt, customer.CreatedBy, customer.LastUpdatedAt, customer.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("save customer %s", customer.CustomerID))
	}
	return nil
}

func (r *PgxPartyRepository) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		err := rows.Scan(
			&c.CustomerID, &c.Name, &c.Phone, &c.Balance,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

const supplierColumns = `supplier_id, name, phone, balance, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxPartyRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_id = $1;`
	var s domain.Supplier
	err := r.pool.QueryRow(ctx, query, supplierID).Scan(
		&s.SupplierID, &s.Name, &s.Phone, &s.Balance,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
		}
		return nil, fmt.Errorf("failed to find supplier %s: %w", supplierID, err)
	}
	return &s, nil
}

func (r *PgxPartyRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, name, phone, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		supplier.SupplierID, supplier.Name, supplier.Phone, supplier.Balance,
		supplier.CreatedAt, supplier.CreatedBy, supplier.LastUpdatedAt, supplier.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("save supplier %s", supplier.SupplierID))
	}
	return nil
}

func (r *PgxPartyRepository) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0)
	for rows.Next() {
		var s domain.Supplier
		err := rows.Scan(
			&s.SupplierID, &s.Name, &s.Phone, &s.Balance,
			&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

const employeeColumns = `employee_id, name, salary, advance_balance, custody_balance, reward_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.EmployeeID, &e.Name, &e.Salary, &e.AdvanceBalance, &e.CustodyBalance, &e.RewardBalance, &e.IsActive,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	return e, err
}

func (r *PgxPartyRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1;`
	e, err := scanEmployee(r.pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, employeeID)
		}
		return nil, fmt.Errorf("failed to find employee %s: %w", employeeID, err)
	}
	return &e, nil
}

// FindEmployeesByIDs retrieves multiple employees keyed by ID. Missing IDs
// are simply absent from the map.
func (r *PgxPartyRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	if len(employeeIDs) == 0 {
		return map[string]domain.Employee{}, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by IDs: %w", err)
	}
	defer rows.Close()

	employees := make(map[string]domain.Employee, len(employeeIDs))
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees[e.EmployeeID] = e
	}
	return employees, rows.Err()
}

func (r *PgxPartyRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	query := `
		INSERT INTO employees (employee_id, name, salary, advance_balance, custody_balance, reward_balance, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		employee.EmployeeID, employee.Name, employee.Salary,
		employee.AdvanceBalance, employee.CustodyBalance, employee.RewardBalance, employee.IsActive,
		employee.CreatedAt, employee.CreatedBy, employee.LastUpdatedAt, employee.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("save employee %s", employee.EmployeeID))
	}
	return nil
}

func (r *PgxPartyRepository) ListEmployees(ctx context.Context, limit, offset int) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
