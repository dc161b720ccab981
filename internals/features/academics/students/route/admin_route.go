// file: internals/features/academics/students/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "schoolpay_backend/internals/features/academics/students/controller"
)

func StudentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := studentController.NewStudentController(db)

	grp := admin.Group("/students")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Get("/:id", h.GetByID)
	grp.Patch("/:id", h.Patch)
}
