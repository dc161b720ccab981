// file: internals/features/academics/promotion/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	promoController "schoolpay_backend/internals/features/academics/promotion/controller"
	service "schoolpay_backend/internals/features/academics/promotion/service"
	auditService "schoolpay_backend/internals/features/audit/service"
	feeService "schoolpay_backend/internals/features/finance/fees/service"
)

// PromotionAdminRoutes wires the promotion engine under the admin group and
// returns the lifecycle service so main can hand it to the scheduler.
func PromotionAdminRoutes(admin fiber.Router, db *gorm.DB) *service.LifecycleService {
	audit := auditService.NewWriter(db)
	orch := service.NewOrchestrator(
		service.NewStudentStore(db),
		feeService.NewService(db),
		audit,
		service.NewSchoolTypeResolver(db),
	)
	lifecycle := service.NewLifecycleService(service.NewConfigStore(db), orch, audit)
	h := promoController.NewPromotionController(db, lifecycle)

	grp := admin.Group("/promotions")
	grp.Post("/configs", h.UpsertConfig)
	grp.Get("/configs", h.ListConfigs)
	grp.Post("/configs/:id/trigger", h.Trigger)
	grp.Post("/configs/:id/cancel", h.Cancel)

	return lifecycle
}
