// file: internals/features/academics/promotion/controller/promotion_controller.go
package controller

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/promotion/dto"
	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	service "schoolpay_backend/internals/features/academics/promotion/service"
	helper "schoolpay_backend/internals/helpers"
)

var validate = validator.New()

type PromotionController struct {
	DB        *gorm.DB
	Lifecycle *service.LifecycleService
}

func NewPromotionController(db *gorm.DB, lifecycle *service.LifecycleService) *PromotionController {
	return &PromotionController{DB: db, Lifecycle: lifecycle}
}

// -----------------------------------------
// Create/update config (POST /promotions/configs)
// -----------------------------------------
func (h *PromotionController) UpsertConfig(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.PromotionRunConfigUpsertDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if body.NextYear < body.TargetYear {
		return helper.JsonError(c, fiber.StatusBadRequest, "next cycle must not precede the target cycle")
	}

	createdBy := "admin"
	if uid := helper.GetUserIDFromToken(c); uid != nil {
		createdBy = "admin:" + uid.String()
	}

	cfg, err := h.Lifecycle.CreateOrUpdateConfig(c.UserContext(), schoolID, body, createdBy)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "promotion config saved", dto.NewPromotionRunConfigResponse(cfg))
}

// -----------------------------------------
// List configs (GET /promotions/configs)
// Query filters: status, year, sort_by (created_at|trigger_date), order
// -----------------------------------------
func (h *PromotionController) ListConfigs(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := h.DB.Model(&promoModel.PromotionRunConfigModel{}).
		Where("promotion_run_config_school_id = ?", schoolID)

	if v := c.Query("status"); v != "" {
		q = q.Where("promotion_run_config_status = ?", strings.ToLower(v))
	}
	if v := c.QueryInt("year"); v > 0 {
		q = q.Where("promotion_run_config_target_year = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	allowed := map[string]string{
		"created_at":   "promotion_run_config_created_at",
		"trigger_date": "promotion_run_config_trigger_date",
	}
	col, ok := allowed[strings.ToLower(p.SortBy)]
	if !ok {
		col = allowed["created_at"]
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}

	var rows []promoModel.PromotionRunConfigModel
	if err := q.Order(fmt.Sprintf("%s %s", col, dir)).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.PromotionRunConfigResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewPromotionRunConfigResponse(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(p, total))
}

// -----------------------------------------
// Trigger (POST /promotions/configs/:id/trigger)
// -----------------------------------------
func (h *PromotionController) Trigger(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid config id")
	}

	var body dto.PromotionTriggerDTO
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	// Tenant guard before any state change.
	if _, err := h.Lifecycle.GetConfigForSchool(c.UserContext(), schoolID, id); err != nil {
		return helper.FromFiberError(c, err)
	}

	summary, err := h.Lifecycle.Trigger(c.UserContext(), id, body.ExcludedStudentIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, summary.Message, summary)
}

// -----------------------------------------
// Cancel (POST /promotions/configs/:id/cancel)
// -----------------------------------------
func (h *PromotionController) Cancel(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid config id")
	}

	var body dto.PromotionCancelDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := h.Lifecycle.GetConfigForSchool(c.UserContext(), schoolID, id); err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := h.Lifecycle.Cancel(c.UserContext(), id, body.Reason); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "promotion run cancelled", nil)
}
