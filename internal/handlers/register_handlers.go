package handlers

import (
	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/OluAde/ledger_recon_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to entity-scoped
// route registrations. Every resource is nested under an entity; the entity ID
// in the path scopes all reads and writes.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	entity := v1.Group("/entities/:entity_id")
	{
		registerAccountRoutes(entity, services.Account)
		registerJournalRoutes(entity, services.Posting)
		registerPeriodRoutes(entity, services.Posting)
		registerBankAccountRoutes(entity, services.BankAccount)
		registerReconciliationRoutes(entity, services.Reconciliation)
	}
}
