// file: internals/features/audit/controller/audit_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "schoolpay_backend/internals/features/audit/model"
	helper "schoolpay_backend/internals/helpers"
)

type AuditController struct {
	DB *gorm.DB
}

func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{DB: db}
}

// -----------------------------------------
// List (GET /audit-logs)
// Query filters: action, entity_type, entity_id, date_from, date_to
// -----------------------------------------
func (h *AuditController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := h.DB.Model(&auditModel.AuditLogModel{}).
		Where("audit_log_school_id = ?", schoolID)

	if v := c.Query("action"); v != "" {
		q = q.Where("audit_log_action = ?", strings.ToLower(v))
	}
	if v := c.Query("entity_type"); v != "" {
		q = q.Where("audit_log_entity_type = ?", strings.ToLower(v))
	}
	if v := c.Query("entity_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("audit_log_entity_id = ?", id)
		}
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q = q.Where("audit_log_created_at >= ?", t)
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q = q.Where("audit_log_created_at <= ?", t)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []auditModel.AuditLogModel
	if err := q.Order("audit_log_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows, helper.BuildPagination(p, total))
}
