// file: internals/features/finance/fees/controller/fee_record_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/finance/fees/dto"
	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	helper "schoolpay_backend/internals/helpers"
)

type FeeRecordController struct {
	DB *gorm.DB
}

func NewFeeRecordController(db *gorm.DB) *FeeRecordController {
	return &FeeRecordController{DB: db}
}

// -----------------------------------------
// List (GET /fee-records)
// Query filters: student_id, year, term, category, outstanding (true|false)
// -----------------------------------------
func (h *FeeRecordController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := h.DB.Model(&feeModel.FeeRecordModel{}).
		Where("fee_record_school_id = ?", schoolID)

	if v := c.Query("student_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("fee_record_student_id = ?", id)
		}
	}
	if v := c.QueryInt("year"); v > 0 {
		q = q.Where("fee_record_year = ?", v)
	}
	if v := c.QueryInt("term"); v > 0 {
		q = q.Where("fee_record_term = ?", v)
	}
	if v := c.Query("category"); v != "" {
		q = q.Where("fee_record_category = ?", strings.ToLower(v))
	}
	if v := c.Query("outstanding"); v != "" {
		if strings.EqualFold(v, "true") {
			q = q.Where("fee_record_outstanding_cents > 0")
		} else {
			q = q.Where("fee_record_outstanding_cents <= 0")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []feeModel.FeeRecordModel
	if err := q.Order("fee_record_year DESC, fee_record_term DESC, fee_record_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.FeeRecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewFeeRecordResponse(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(p, total))
}

// -----------------------------------------
// Detail (GET /fee-records/:id)
// -----------------------------------------
func (h *FeeRecordController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid fee record id")
	}

	var row feeModel.FeeRecordModel
	if err := h.DB.
		Where("fee_record_id = ? AND fee_record_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee record not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", dto.NewFeeRecordResponse(&row))
}
