// file: internals/features/finance/fees/controller/fee_structure_controller.go
package controller

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/finance/fees/dto"
	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	helper "schoolpay_backend/internals/helpers"
)

var validate = validator.New()

type FeeStructureController struct {
	DB *gorm.DB
}

func NewFeeStructureController(db *gorm.DB) *FeeStructureController {
	return &FeeStructureController{DB: db}
}

// -----------------------------------------
// List (GET /fee-structures)
// Query filters: grade, year, term, active
// -----------------------------------------
func (h *FeeStructureController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := h.DB.Model(&feeModel.FeeStructureModel{}).
		Where("fee_structure_school_id = ?", schoolID)

	if v := c.Query("grade"); v != "" {
		q = q.Where("fee_structure_grade_label = ?", v)
	}
	if v := c.QueryInt("year"); v > 0 {
		q = q.Where("fee_structure_year = ?", v)
	}
	if v := c.QueryInt("term"); v > 0 {
		q = q.Where("fee_structure_term = ?", v)
	}
	if v := c.Query("active"); v != "" {
		q = q.Where("fee_structure_is_active = ?", strings.EqualFold(v, "true"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []feeModel.FeeStructureModel
	if err := q.Order("fee_structure_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.FeeStructureResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewFeeStructureResponse(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(p, total))
}

// -----------------------------------------
// Create (POST /fee-structures)
// -----------------------------------------
func (h *FeeStructureController) Create(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.FeeStructureCreateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}
	for _, comp := range body.Components {
		if strings.TrimSpace(comp.Name) == "" || comp.AmountCents < 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "each component needs a name and a non-negative amount")
		}
	}

	components, err := json.Marshal(body.Components)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "components are not serializable")
	}

	row := feeModel.FeeStructureModel{
		FeeStructureSchoolID:      schoolID,
		FeeStructureGradeLabel:    strings.TrimSpace(body.GradeLabel),
		FeeStructureYear:          body.Year,
		FeeStructureTerm:          body.Term,
		FeeStructureComponents:    components,
		FeeStructureDiscountCents: body.DiscountCents,
		FeeStructureIsActive:      true,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "fee structure created", dto.NewFeeStructureResponse(&row))
}
