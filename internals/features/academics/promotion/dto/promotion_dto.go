// file: internals/features/academics/promotion/dto/promotion_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

////////////////////////////////////////////////////////////////////////////////
// PROMOTION RUN CONFIG - DTO
////////////////////////////////////////////////////////////////////////////////

// Create/update one cycle config. The (school, target_year, target_term) pair
// is unique; posting the same cycle again updates the scheduled config.
type PromotionRunConfigUpsertDTO struct {
	TargetYear  int       `json:"target_year" validate:"required,min=2000,max=2100"`
	TargetTerm  int       `json:"target_term" validate:"required,min=1,max=3"`
	TriggerDate time.Time `json:"trigger_date" validate:"required"`

	NextYear int `json:"next_year" validate:"required,min=2000,max=2100"`
	NextTerm int `json:"next_term" validate:"required,min=1,max=3"`

	CarryForward bool `json:"carry_forward"`

	// Destination grade label → fee structure id, plus fallback
	FeeStructuresByGrade  map[string]uuid.UUID `json:"fee_structures_by_grade,omitempty"`
	DefaultFeeStructureID *uuid.UUID           `json:"default_fee_structure_id,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

type PromotionTriggerDTO struct {
	ExcludedStudentIDs []uuid.UUID `json:"excluded_student_ids,omitempty"`
}

type PromotionCancelDTO struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// Response
type PromotionRunConfigResponse struct {
	PromotionRunConfigID uuid.UUID `json:"promotion_run_config_id"`
	SchoolID             uuid.UUID `json:"school_id"`

	TargetYear  int       `json:"target_year"`
	TargetTerm  int       `json:"target_term"`
	TriggerDate time.Time `json:"trigger_date"`
	NextYear    int       `json:"next_year"`
	NextTerm    int       `json:"next_term"`

	CarryForward bool `json:"carry_forward"`

	Status     promoModel.RunStatus `json:"status"`
	ExecutedAt *time.Time           `json:"executed_at,omitempty"`

	PromotedCount  int `json:"promoted_count"`
	CompletedCount int `json:"completed_count"`
	ErrorCount     int `json:"error_count"`

	Notes     *string   `json:"notes,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPromotionRunConfigResponse(m *promoModel.PromotionRunConfigModel) PromotionRunConfigResponse {
	return PromotionRunConfigResponse{
		PromotionRunConfigID: m.PromotionRunConfigID,
		SchoolID:             m.PromotionRunConfigSchoolID,
		TargetYear:           m.PromotionRunConfigTargetYear,
		TargetTerm:           m.PromotionRunConfigTargetTerm,
		TriggerDate:          m.PromotionRunConfigTriggerDate,
		NextYear:             m.PromotionRunConfigNextYear,
		NextTerm:             m.PromotionRunConfigNextTerm,
		CarryForward:         m.PromotionRunConfigCarryForward,
		Status:               m.PromotionRunConfigStatus,
		ExecutedAt:           m.PromotionRunConfigExecutedAt,
		PromotedCount:        m.PromotionRunConfigPromotedCount,
		CompletedCount:       m.PromotionRunConfigCompletedCount,
		ErrorCount:           m.PromotionRunConfigErrorCount,
		Notes:                m.PromotionRunConfigNotes,
		IsActive:             m.PromotionRunConfigIsActive,
		CreatedBy:            m.PromotionRunConfigCreatedBy,
		CreatedAt:            m.PromotionRunConfigCreatedAt,
		UpdatedAt:            m.PromotionRunConfigUpdatedAt,
	}
}

////////////////////////////////////////////////////////////////////////////////
// PROMOTION SUMMARY - transient run result
////////////////////////////////////////////////////////////////////////////////

// ToGradeCompleted is used in the breakdown when a grade's rule ends the phase.
const ToGradeCompleted = "COMPLETED"

type GradeBreakdown struct {
	FromGrade    string `json:"from_grade"`
	ToGrade      string `json:"to_grade"` // next label or "COMPLETED"
	StudentCount int    `json:"student_count"`
	SuccessCount int    `json:"success_count"`
	ErrorCount   int    `json:"error_count"`
}

type CompletedStudent struct {
	StudentID uuid.UUID                     `json:"student_id"`
	Reference string                        `json:"reference"`
	FullName  string                        `json:"full_name"`
	Category  studentModel.CompletionStatus `json:"category"`
}

type PromotionError struct {
	StudentID  uuid.UUID `json:"student_id"`
	FullName   string    `json:"full_name"`
	GradeLabel string    `json:"grade_label"`
	Message    string    `json:"message"`
}

type PromotionSummary struct {
	TotalProcessed int `json:"total_processed"`
	PromotedCount  int `json:"promoted_count"`
	CompletedCount int `json:"completed_count"`
	ExcludedCount  int `json:"excluded_count"`
	ErrorCount     int `json:"error_count"`

	GradeBreakdown    []GradeBreakdown   `json:"grade_breakdown"`
	CompletedStudents []CompletedStudent `json:"completed_students"`
	Errors            []PromotionError   `json:"errors"`

	PromotedStudentIDs []uuid.UUID `json:"promoted_student_ids"`

	// Students promoted without a fee record (missing structure or fee
	// creation failure); for manual backfill, not counted as run errors.
	FeeSkippedStudentIDs []uuid.UUID `json:"fee_skipped_student_ids,omitempty"`

	Message string `json:"message"`
}
