package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// projectService manages the project aggregate. Creating a project also
// creates its dedicated fund account, atomically with the project row.
type projectService struct {
	ledger      portsrepo.LedgerStore
	projectRepo portsrepo.ProjectRepository
	auditSvc    portssvc.AuditSvcFacade
}

// NewProjectService creates a new project service.
func NewProjectService(ledger portsrepo.LedgerStore, projectRepo portsrepo.ProjectRepository, auditSvc portssvc.AuditSvcFacade) portssvc.ProjectSvcFacade {
	return &projectService{ledger: ledger, projectRepo: projectRepo, auditSvc: auditSvc}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject creates the project, its zero-balance fund account and its
// budget lines in one transaction.
func (s *projectService) CreateProject(ctx context.Context, actorID string, req dto.CreateProjectRequest) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.EstimatedCosts.IsNegative() {
		return nil, fmt.Errorf("%w: estimated costs must not be negative", apperrors.ErrValidation)
	}
	for _, item := range req.BudgetItems {
		if item.AllocatedAmount.IsNegative() {
			return nil, fmt.Errorf("%w: allocated amount must not be negative for budget item %q", apperrors.ErrValidation, item.Name)
		}
	}

	now := time.Now().UTC()
	fundAccount := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        fmt.Sprintf("%s fund", req.Name),
		Kind:        domain.ProjectFund,
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	project := domain.Project{
		ProjectID:      uuid.NewString(),
		Name:           req.Name,
		EstimatedCosts: req.EstimatedCosts,
		FundAccountID:  fundAccount.AccountID,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}
	items := make([]domain.BudgetItem, len(req.BudgetItems))
	for i, item := range req.BudgetItems {
		items[i] = domain.BudgetItem{
			BudgetItemID:       uuid.NewString(),
			ProjectID:          project.ProjectID,
			GlobalBudgetItemID: item.GlobalBudgetItemID,
			Name:               item.Name,
			AllocatedAmount:    item.AllocatedAmount,
			AuditFields:        domain.NewAuditFields(actorID, now),
		}
	}

	err := s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if err := tx.InsertAccount(ctx, fundAccount); err != nil {
			return err
		}
		if err := tx.InsertProject(ctx, project); err != nil {
			return err
		}
		if len(items) > 0 {
			return tx.InsertBudgetItems(ctx, items)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create project", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}

	project.BudgetItems = items
	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "project", EntityID: project.ProjectID,
		Details: map[string]any{"name": project.Name, "fundAccountID": fundAccount.AccountID},
	})
	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("name", project.Name))
	return &project, nil
}

func (s *projectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

func (s *projectService) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.projectRepo.ListProjects(ctx, limit, offset)
}

// AddUnit registers a new sellable unit in AVAILABLE state.
func (s *projectService) AddUnit(ctx context.Context, actorID, projectID string, req dto.CreateUnitRequest) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Area.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: unit area must be positive", apperrors.ErrValidation)
	}
	if req.SuggestedPrice.IsNegative() {
		return nil, fmt.Errorf("%w: suggested price must not be negative", apperrors.ErrValidation)
	}
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	unit := domain.Unit{
		UnitID:         uuid.NewString(),
		ProjectID:      projectID,
		Code:           req.Code,
		Area:           req.Area,
		Status:         domain.UnitAvailable,
		SuggestedPrice: req.SuggestedPrice,
		PaidAmount:     decimal.Zero,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}
	if err := s.projectRepo.InsertUnit(ctx, unit); err != nil {
		logger.Error("Failed to add unit", slog.String("project_id", projectID), slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "unit", EntityID: unit.UnitID,
		Details: map[string]any{"projectID": projectID, "code": unit.Code},
	})
	return &unit, nil
}
