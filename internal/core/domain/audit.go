package domain

import "time"

// AuditRecord is one structured entry in the audit log. Audit writes are
// best-effort: a failed append is logged and never fails the operation that
// produced it.
type AuditRecord struct {
	AuditID   string         `json:"auditID"`
	At        time.Time      `json:"at"`
	ActorID   string         `json:"actorID"`
	ActorName string         `json:"actorName"`
	Action    string         `json:"action"` // e.g. "create", "update", "delete"
	Entity    string         `json:"entity"` // e.g. "expense", "purchase_invoice"
	EntityID  string         `json:"entityID"`
	Details   map[string]any `json:"details,omitempty"`
}
