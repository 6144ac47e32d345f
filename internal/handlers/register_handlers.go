package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/buildra/construction_finance_app/cmd/docs"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/middleware"
	"github.com/buildra/construction_finance_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos *portsrepo.RepositoryProvider,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, services.Auth)

	// Authenticated API surface
	setupAPIV1Routes(r, cfg, services, repos)

	// Swagger routes (disabled in production)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos *portsrepo.RepositoryProvider,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterAccountRoutes(v1, services.Account, services.Treasury, services.Journal)
	registerTreasuryRoutes(v1, services.Treasury)
	registerJournalRoutes(v1, services.Journal, services.Audit)
	registerProjectRoutes(v1, services.Project, services.Partner)
	registerSalesRoutes(v1, services.Sales, repos.InstallmentRepo)
	registerExpenseRoutes(v1, services.Expense, repos.ExpenseRepo)
	registerPurchaseRoutes(v1, services.Purchase, repos.PurchaseRepo)
	registerInventoryRoutes(v1, services.Inventory)
	registerPartyRoutes(v1, services.Party, repos.InstallmentRepo)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
