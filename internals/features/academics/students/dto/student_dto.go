// file: internals/features/academics/students/dto/student_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

////////////////////////////////////////////////////////////////////////////////
// STUDENTS - DTO
////////////////////////////////////////////////////////////////////////////////

type StudentCreateDTO struct {
	StudentReference  string  `json:"student_reference" validate:"required,min=2,max=40"`
	StudentFullName   string  `json:"student_full_name" validate:"required,min=2,max=120"`
	StudentGradeLabel string  `json:"student_grade_label" validate:"required,max=20"` // "Grade N" / "Form N"
	StudentNotes      *string `json:"student_notes,omitempty"`
}

// Partial update. Completion status is only ever written by the promotion
// engine or by an explicit admin correction through this DTO.
type StudentUpdateDTO struct {
	StudentFullName         *string                        `json:"student_full_name,omitempty" validate:"omitempty,min=2,max=120"`
	StudentGradeLabel       *string                        `json:"student_grade_label,omitempty" validate:"omitempty,max=20"`
	StudentIsActive         *bool                          `json:"student_is_active,omitempty"`
	StudentCompletionStatus *studentModel.CompletionStatus `json:"student_completion_status,omitempty"`
	StudentNotes            *string                        `json:"student_notes,omitempty"`
}

type StudentResponse struct {
	StudentID               uuid.UUID                      `json:"student_id"`
	StudentSchoolID         uuid.UUID                      `json:"student_school_id"`
	StudentReference        string                         `json:"student_reference"`
	StudentFullName         string                         `json:"student_full_name"`
	StudentGradeLabel       string                         `json:"student_grade_label"`
	StudentIsActive         bool                           `json:"student_is_active"`
	StudentCompletionStatus *studentModel.CompletionStatus `json:"student_completion_status,omitempty"`
	StudentNotes            *string                        `json:"student_notes,omitempty"`
	StudentCreatedAt        time.Time                      `json:"student_created_at"`
	StudentUpdatedAt        time.Time                      `json:"student_updated_at"`
}

func NewStudentResponse(m *studentModel.StudentModel) StudentResponse {
	return StudentResponse{
		StudentID:               m.StudentID,
		StudentSchoolID:         m.StudentSchoolID,
		StudentReference:        m.StudentReference,
		StudentFullName:         m.StudentFullName,
		StudentGradeLabel:       m.StudentGradeLabel,
		StudentIsActive:         m.StudentIsActive,
		StudentCompletionStatus: m.StudentCompletionStatus,
		StudentNotes:            m.StudentNotes,
		StudentCreatedAt:        m.StudentCreatedAt,
		StudentUpdatedAt:        m.StudentUpdatedAt,
	}
}
