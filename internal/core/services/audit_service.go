package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// auditService is the fire-and-forget audit sink. A failed audit write must
// never fail the business operation it describes, so Record swallows errors
// after logging them.
type auditService struct {
	auditRepo portsrepo.AuditRepository
	userRepo  portsrepo.UserRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditRepository, userRepo portsrepo.UserRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo, userRepo: userRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) Record(ctx context.Context, record domain.AuditRecord) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if record.AuditID == "" {
		record.AuditID = uuid.NewString()
	}
	if record.At.IsZero() {
		record.At = time.Now().UTC()
	}
	if record.ActorName == "" && record.ActorID != "" {
		if user, err := s.userRepo.FindUserByID(ctx, record.ActorID); err == nil {
			record.ActorName = user.Name
		}
	}

	if err := s.auditRepo.AppendAuditRecord(ctx, record); err != nil {
		logger.Error("Failed to append audit record",
			slog.String("action", record.Action),
			slog.String("entity", record.Entity),
			slog.String("entity_id", record.EntityID),
			slog.String("error", err.Error()))
	}
}

func (s *auditService) List(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.auditRepo.ListAuditRecords(ctx, limit, offset)
}
