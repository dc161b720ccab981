// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	promotionRoute "schoolpay_backend/internals/features/academics/promotion/route"
	promotionService "schoolpay_backend/internals/features/academics/promotion/service"
	studentRoute "schoolpay_backend/internals/features/academics/students/route"
	auditRoute "schoolpay_backend/internals/features/audit/route"
	feeRoute "schoolpay_backend/internals/features/finance/fees/route"
	paymentRoute "schoolpay_backend/internals/features/finance/payments/route"
	middleware "schoolpay_backend/internals/middlewares/auth_school"

	"schoolpay_backend/internals/configs"
)

// SetupRoutes registers the admin API surface and returns the promotion
// lifecycle service so the caller can hand it to the scheduler.
func SetupRoutes(app *fiber.App, db *gorm.DB) *promotionService.LifecycleService {
	api := app.Group("/api")

	// Admin group: every route below requires a valid school-scoped JWT.
	admin := api.Group("/a", middleware.AuthJWT(middleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	studentRoute.StudentAdminRoutes(admin, db)
	lifecycle := promotionRoute.PromotionAdminRoutes(admin, db)
	feeRoute.FeeAdminRoutes(admin, db)
	paymentRoute.PaymentAdminRoutes(admin, db)
	auditRoute.AuditAdminRoutes(admin, db)

	return lifecycle
}
