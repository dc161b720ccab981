// file: internals/features/finance/payments/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "schoolpay_backend/internals/features/finance/payments/controller"
)

func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := paymentController.NewPaymentController(db)

	grp := admin.Group("/payments")
	grp.Post("/", h.Create)
	grp.Post("/:id/settle", h.Settle)
}
