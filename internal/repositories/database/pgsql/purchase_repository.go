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

type PgxPurchaseRepository struct {
	pool *pgxpool.Pool
}

// newPgxPurchaseRepository creates a new repository for purchase invoices and
// inventory items.
func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepository {
	return &PgxPurchaseRepository{pool: pool}
}

var _ portsrepo.PurchaseRepository = (*PgxPurchaseRepository)(nil)

const invoiceColumns = `invoice_id, invoice_number, supplier_id, purchase_type, project_id, budget_item_id, total, paid_amount, payment_account_id, invoice_date, description, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.PurchaseInvoice, error) {
	var inv domain.PurchaseInvoice
	err := row.Scan(
		&inv.InvoiceID, &inv.InvoiceNumber, &inv.SupplierID, &inv.PurchaseType,
		&inv.ProjectID, &inv.BudgetItemID, &inv.Total, &inv.PaidAmount, &inv.PaymentAccountID,
		&inv.InvoiceDate, &inv.Description,
		&inv.CreatedAt, &inv.CreatedBy, &inv.LastUpdatedAt, &inv.LastUpdatedBy,
	)
	return inv, err
}

// FindInvoiceByID loads one invoice with its lines.
func (r *PgxPurchaseRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE invoice_id = $1;`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	lineRows, err := r.pool.Query(ctx,
		`SELECT line_id, invoice_id, item_id, quantity, unit_price FROM purchase_invoice_lines WHERE invoice_id = $1;`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines of invoice %s: %w", invoiceID, err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var l domain.InvoiceLine
		if err := lineRows.Scan(&l.LineID, &l.InvoiceID, &l.ItemID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line row: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoicesBySupplier retrieves invoice headers (no lines) for one
// supplier, newest first.
func (r *PgxPurchaseRepository) ListInvoicesBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]domain.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE supplier_id = $1 ORDER BY invoice_date DESC, created_at DESC LIMIT $2 OFFSET $3;`
	rows, err := r.pool.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices of supplier %s: %w", supplierID, err)
	}
	defer rows.Close()

	invoices := make([]domain.PurchaseInvoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

const itemColumns = `item_id, name, unit, stock, average_cost, last_purchase_price, created_at, created_by, last_updated_at, last_updated_by`

func scanItem(row pgx.Row) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(
		&item.ItemID, &item.Name, &item.Unit, &item.Stock, &item.AverageCost, &item.LastPurchasePrice,
		&item.CreatedAt, &item.CreatedBy, &item.LastUpdatedAt, &item.LastUpdatedBy,
	)
	return item, err
}

func (r *PgxPurchaseRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE item_id = $1;`
	item, err := scanItem(r.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to find inventory item %s: %w", itemID, err)
	}
	return &item, nil
}

// SaveItem inserts a new inventory item. Stock and cost changes after that
// only happen through ledger transactions.
func (r *PgxPurchaseRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (item_id, name, unit, stock, average_cost, last_purchase_price, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		item.ItemID, item.Name, item.Unit, item.Stock, item.AverageCost, item.LastPurchasePrice,
		item.CreatedAt, item.CreatedBy, item.LastUpdatedAt, item.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("save inventory item %s", item.ItemID))
	}
	return nil
}

func (r *PgxPurchaseRepository) ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
