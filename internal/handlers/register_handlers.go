package handlers

import (
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Authentication happens at the gateway; the v1 group only requires the
	// forwarded caller identity.
	v1 := r.Group("/api/v1", middleware.CallerIdentityMiddleware())

	registerCompanyRoutes(v1, services.Company)

	companies := v1.Group("/companies/:companyID")
	registerAccountRoutes(companies, services.Account, services.Ledger)
	registerEntryRoutes(companies, services.Entry)
	registerLedgerRoutes(companies, services.Ledger)
}

// registerCustomValidators adds the nonnegmoney rule used by entry line
// bindings: a decimal amount that must not be negative.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("nonnegmoney", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !d.IsNegative()
	})
}
