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

// partyService manages customers, suppliers and employees. Their balances are
// moved only by coordinator operations; this service handles the master data.
type partyService struct {
	partyRepo portsrepo.PartyRepository
	auditSvc  portssvc.AuditSvcFacade
}

// NewPartyService creates a new party service.
func NewPartyService(partyRepo portsrepo.PartyRepository, auditSvc portssvc.AuditSvcFacade) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo, auditSvc: auditSvc}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateCustomer(ctx context.Context, actorID string, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		Name:        req.Name,
		Phone:       req.Phone,
		Balance:     req.OpeningBalance,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	if err := s.partyRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to create customer", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "customer", EntityID: customer.CustomerID,
		Details: map[string]any{"name": customer.Name},
	})
	return &customer, nil
}

func (s *partyService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.partyRepo.FindCustomerByID(ctx, customerID)
}

func (s *partyService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	limit, offset = normalizeListWindow(limit, offset)
	return s.partyRepo.ListCustomers(ctx, limit, offset)
}

func (s *partyService) CreateSupplier(ctx context.Context, actorID string, req dto.CreateSupplierRequest) (*domain.Supplier, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	supplier := domain.Supplier{
		SupplierID:  uuid.NewString(),
		Name:        req.Name,
		Phone:       req.Phone,
		Balance:     req.OpeningBalance,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	if err := s.partyRepo.SaveSupplier(ctx, supplier); err != nil {
		logger.Error("Failed to create supplier", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "supplier", EntityID: supplier.SupplierID,
		Details: map[string]any{"name": supplier.Name},
	})
	return &supplier, nil
}

func (s *partyService) GetSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	return s.partyRepo.FindSupplierByID(ctx, supplierID)
}

func (s *partyService) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	limit, offset = normalizeListWindow(limit, offset)
	return s.partyRepo.ListSuppliers(ctx, limit, offset)
}

func (s *partyService) CreateEmployee(ctx context.Context, actorID string, req dto.CreateEmployeeRequest) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Salary.IsNegative() {
		return nil, fmt.Errorf("%w: salary must not be negative", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	employee := domain.Employee{
		EmployeeID:     uuid.NewString(),
		Name:           req.Name,
		Salary:         req.Salary,
		AdvanceBalance: decimal.Zero,
		CustodyBalance: decimal.Zero,
		RewardBalance:  decimal.Zero,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(actorID, now),
	}
	if err := s.partyRepo.SaveEmployee(ctx, employee); err != nil {
		logger.Error("Failed to create employee", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "employee", EntityID: employee.EmployeeID,
		Details: map[string]any{"name": employee.Name},
	})
	return &employee, nil
}

func (s *partyService) ListEmployees(ctx context.Context, limit, offset int) ([]domain.Employee, error) {
	limit, offset = normalizeListWindow(limit, offset)
	return s.partyRepo.ListEmployees(ctx, limit, offset)
}

func normalizeListWindow(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
