// file: internals/features/finance/fees/dto/fee_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	feeModel "schoolpay_backend/internals/features/finance/fees/model"
)

////////////////////////////////////////////////////////////////////////////////
// FEE STRUCTURES - DTO
////////////////////////////////////////////////////////////////////////////////

type FeeStructureCreateDTO struct {
	GradeLabel    string                  `json:"grade_label" validate:"required,max=20"`
	Year          int                     `json:"year" validate:"required,min=2000,max=2100"`
	Term          int                     `json:"term" validate:"required,min=1,max=3"`
	Components    []feeModel.FeeComponent `json:"components" validate:"required,min=1,dive"`
	DiscountCents int64                   `json:"discount_cents" validate:"min=0"`
}

type FeeStructureResponse struct {
	FeeStructureID uuid.UUID               `json:"fee_structure_id"`
	SchoolID       uuid.UUID               `json:"school_id"`
	GradeLabel     string                  `json:"grade_label"`
	Year           int                     `json:"year"`
	Term           int                     `json:"term"`
	Components     []feeModel.FeeComponent `json:"components"`
	DiscountCents  int64                   `json:"discount_cents"`
	IsActive       bool                    `json:"is_active"`
	CreatedAt      time.Time               `json:"created_at"`
}

func NewFeeStructureResponse(m *feeModel.FeeStructureModel) FeeStructureResponse {
	components, _ := m.Components()
	return FeeStructureResponse{
		FeeStructureID: m.FeeStructureID,
		SchoolID:       m.FeeStructureSchoolID,
		GradeLabel:     m.FeeStructureGradeLabel,
		Year:           m.FeeStructureYear,
		Term:           m.FeeStructureTerm,
		Components:     components,
		DiscountCents:  m.FeeStructureDiscountCents,
		IsActive:       m.FeeStructureIsActive,
		CreatedAt:      m.FeeStructureCreatedAt,
	}
}

////////////////////////////////////////////////////////////////////////////////
// FEE RECORDS - DTO (read-only here; writes go through the services)
////////////////////////////////////////////////////////////////////////////////

type FeeRecordResponse struct {
	FeeRecordID          uuid.UUID                  `json:"fee_record_id"`
	SchoolID             uuid.UUID                  `json:"school_id"`
	StudentID            uuid.UUID                  `json:"student_id"`
	Year                 int                        `json:"year"`
	Term                 int                        `json:"term"`
	GradeLabel           string                     `json:"grade_label"`
	Category             feeModel.FeeRecordCategory `json:"category"`
	GrossCents           int64                      `json:"gross_cents"`
	DiscountCents        int64                      `json:"discount_cents"`
	PreviousBalanceCents int64                      `json:"previous_balance_cents"`
	PaidCents            int64                      `json:"paid_cents"`
	OutstandingCents     int64                      `json:"outstanding_cents"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
}

func NewFeeRecordResponse(m *feeModel.FeeRecordModel) FeeRecordResponse {
	return FeeRecordResponse{
		FeeRecordID:          m.FeeRecordID,
		SchoolID:             m.FeeRecordSchoolID,
		StudentID:            m.FeeRecordStudentID,
		Year:                 m.FeeRecordYear,
		Term:                 m.FeeRecordTerm,
		GradeLabel:           m.FeeRecordGradeLabel,
		Category:             m.FeeRecordCategory,
		GrossCents:           m.FeeRecordGrossCents,
		DiscountCents:        m.FeeRecordDiscountCents,
		PreviousBalanceCents: m.FeeRecordPreviousBalanceCents,
		PaidCents:            m.FeeRecordPaidCents,
		OutstandingCents:     m.FeeRecordOutstandingCents,
		CreatedAt:            m.FeeRecordCreatedAt,
		UpdatedAt:            m.FeeRecordUpdatedAt,
	}
}
