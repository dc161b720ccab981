// file: internals/features/audit/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditController "schoolpay_backend/internals/features/audit/controller"
)

func AuditAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := auditController.NewAuditController(db)

	admin.Get("/audit-logs", h.List)
}
