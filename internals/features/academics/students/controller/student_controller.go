// file: internals/features/academics/students/controller/student_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/students/dto"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	helper "schoolpay_backend/internals/helpers"
)

var validate = validator.New()

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

// -----------------------------------------
// List (GET /students)
// Query filters: grade, active (true|false), completed (true|false), search
// -----------------------------------------
func (h *StudentController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := h.DB.Model(&studentModel.StudentModel{}).
		Where("student_school_id = ?", schoolID)

	if v := c.Query("grade"); v != "" {
		q = q.Where("student_grade_label = ?", v)
	}
	if v := c.Query("active"); v != "" {
		q = q.Where("student_is_active = ?", strings.EqualFold(v, "true"))
	}
	if v := c.Query("completed"); v != "" {
		if strings.EqualFold(v, "true") {
			q = q.Where("student_completion_status IS NOT NULL AND student_completion_status <> ''")
		} else {
			q = q.Where("student_completion_status IS NULL OR student_completion_status = ''")
		}
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		q = q.Where("LOWER(student_full_name) LIKE ? OR LOWER(student_reference) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	allowed := map[string]string{
		"created_at": "student_created_at",
		"name":       "student_full_name",
		"grade":      "student_grade_label",
	}
	col, ok := allowed[strings.ToLower(p.SortBy)]
	if !ok {
		col = allowed["created_at"]
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}

	var rows []studentModel.StudentModel
	if err := q.Order(fmt.Sprintf("%s %s", col, dir)).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewStudentResponse(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(p, total))
}

// -----------------------------------------
// Create (POST /students)
// -----------------------------------------
func (h *StudentController) Create(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.StudentCreateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	row := studentModel.StudentModel{
		StudentSchoolID:   schoolID,
		StudentReference:  strings.TrimSpace(body.StudentReference),
		StudentFullName:   strings.TrimSpace(body.StudentFullName),
		StudentGradeLabel: strings.TrimSpace(body.StudentGradeLabel),
		StudentIsActive:   true,
		StudentNotes:      body.StudentNotes,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		if strings.Contains(err.Error(), "uniq_student_reference") {
			return helper.JsonError(c, fiber.StatusConflict, "student reference already exists for this school")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "student created", dto.NewStudentResponse(&row))
}

// -----------------------------------------
// Detail (GET /students/:id)
// -----------------------------------------
func (h *StudentController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var row studentModel.StudentModel
	if err := h.DB.
		Where("student_id = ? AND student_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", dto.NewStudentResponse(&row))
}

// -----------------------------------------
// Partial update (PATCH /students/:id)
// -----------------------------------------
func (h *StudentController) Patch(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var body dto.StudentUpdateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var row studentModel.StudentModel
	if err := h.DB.
		Where("student_id = ? AND student_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if body.StudentFullName != nil {
		row.StudentFullName = strings.TrimSpace(*body.StudentFullName)
	}
	if body.StudentGradeLabel != nil {
		row.StudentGradeLabel = strings.TrimSpace(*body.StudentGradeLabel)
	}
	if body.StudentIsActive != nil {
		row.StudentIsActive = *body.StudentIsActive
	}
	if body.StudentCompletionStatus != nil {
		row.StudentCompletionStatus = body.StudentCompletionStatus
	}
	if body.StudentNotes != nil {
		row.StudentNotes = body.StudentNotes
	}

	if err := h.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "student updated", dto.NewStudentResponse(&row))
}
