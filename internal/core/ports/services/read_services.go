package services

import (
	"context"

	"github.com/buildra/construction_finance_app/internal/core/domain"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// AccountSvcFacade exposes account reads and maintenance.
type AccountSvcFacade interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, actorID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, actorID, accountID string) error
}

// JournalSvcFacade exposes ledger reads.
type JournalSvcFacade interface {
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// ProjectSvcFacade exposes project aggregate operations.
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, actorID string, req dto.CreateProjectRequest) (*domain.Project, error)
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error)
	AddUnit(ctx context.Context, actorID, projectID string, req dto.CreateUnitRequest) (*domain.Unit, error)
}

// PartySvcFacade exposes customers, suppliers and employees.
type PartySvcFacade interface {
	CreateCustomer(ctx context.Context, actorID string, req dto.CreateCustomerRequest) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error)
	CreateSupplier(ctx context.Context, actorID string, req dto.CreateSupplierRequest) (*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error)
	CreateEmployee(ctx context.Context, actorID string, req dto.CreateEmployeeRequest) (*domain.Employee, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]domain.Employee, error)
}

// AuditSvcFacade is the fire-and-forget audit sink. Record never returns an
// error; failures are logged only.
type AuditSvcFacade interface {
	Record(ctx context.Context, record domain.AuditRecord)
	List(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error)
}

// AuthSvcFacade handles PIN login.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
