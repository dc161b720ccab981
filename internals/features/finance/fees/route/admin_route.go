// file: internals/features/finance/fees/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeController "schoolpay_backend/internals/features/finance/fees/controller"
)

func FeeAdminRoutes(admin fiber.Router, db *gorm.DB) {
	structures := feeController.NewFeeStructureController(db)
	records := feeController.NewFeeRecordController(db)

	grp := admin.Group("/fee-structures")
	grp.Get("/", structures.List)
	grp.Post("/", structures.Create)

	rec := admin.Group("/fee-records")
	rec.Get("/", records.List)
	rec.Get("/:id", records.GetByID)
}
