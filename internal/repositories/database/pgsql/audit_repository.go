package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for the audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{pool: pool}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// AppendAuditRecord writes one audit row. Details go into a jsonb column.
func (r *PgxAuditRepository) AppendAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	var details []byte
	if record.Details != nil {
		var err error
		details, err = json.Marshal(record.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}
	query := `
		INSERT INTO audit_logs (audit_id, at, actor_id, actor_name, action, entity, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		record.AuditID, record.At, record.ActorID, record.ActorName,
		record.Action, record.Entity, record.EntityID, details)
	if err != nil {
		return fmt.Errorf("failed to append audit record %s: %w", record.AuditID, err)
	}
	return nil
}

// ListAuditRecords pages the audit log newest-first.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error) {
	query := `
		SELECT audit_id, at, actor_id, actor_name, action, entity, entity_id, details
		FROM audit_logs
		ORDER BY at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AuditRecord, 0)
	for rows.Next() {
		var rec domain.AuditRecord
		var details []byte
		err := rows.Scan(&rec.AuditID, &rec.At, &rec.ActorID, &rec.ActorName, &rec.Action, &rec.Entity, &rec.EntityID, &details)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &rec.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
