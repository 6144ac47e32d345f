package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	_ "github.com/buildra/construction_finance_app/cmd/docs"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/core/services"
	"github.com/buildra/construction_finance_app/internal/handlers"
	"github.com/buildra/construction_finance_app/internal/middleware"
	"github.com/buildra/construction_finance_app/internal/platform/config"
	"github.com/buildra/construction_finance_app/internal/repositories/database/pgsql"
	"github.com/buildra/construction_finance_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title CFA Backend API
// @version 1.0
// @description Construction finance backend: accounts, projects, units, expenses and the double-entry journal behind them.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Global rate limit; the login route carries its own tighter limit.
	if cfg.RateLimit != "" {
		rate, rerr := limiter.NewRateFromFormatted(cfg.RateLimit)
		if rerr != nil {
			logger.Error("Invalid RATE_LIMIT format", slog.String("error", rerr.Error()))
			os.Exit(1)
		}
		r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := buildServices(cfg, &repos)

	handlers.RegisterRoutes(r, cfg, container, &repos)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires every service facade over the shared repositories.
func buildServices(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	auditSvc := services.NewAuditService(repos.AuditRepo, repos.UserRepo)

	return &portssvc.ServiceContainer{
		Auth:      services.NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
		Account:   services.NewAccountService(repos.AccountRepo, auditSvc),
		Treasury:  services.NewTreasuryService(repos.Ledger, repos.PartyRepo, auditSvc),
		Journal:   services.NewJournalService(repos.JournalRepo),
		Project:   services.NewProjectService(repos.Ledger, repos.ProjectRepo, auditSvc),
		Party:     services.NewPartyService(repos.PartyRepo, auditSvc),
		Expense:   services.NewExpenseService(repos.Ledger, repos.ExpenseRepo, repos.ProjectRepo, auditSvc),
		Purchase:  services.NewPurchaseService(repos.Ledger, repos.PurchaseRepo, repos.PartyRepo, repos.ProjectRepo, auditSvc),
		Inventory: services.NewInventoryService(repos.Ledger, repos.ProjectRepo, repos.PurchaseRepo, auditSvc),
		Sales:     services.NewSalesService(repos.Ledger, repos.ProjectRepo, repos.PartyRepo, repos.InstallmentRepo, auditSvc),
		Partner:   services.NewPartnerService(repos.Ledger, repos.ProjectRepo, auditSvc),
		Audit:     auditSvc,
	}
}

// runMigrations applies all pending "up" migrations against the configured
// database using a temporary database/sql connection.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		migrationDB.Close()
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		m.Close()
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
