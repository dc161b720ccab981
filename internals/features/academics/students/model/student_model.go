// file: internals/features/academics/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM - completion status (empty = still enrolled)
// =========================================================

type CompletionStatus string

const (
	CompletionPrimary CompletionStatus = "completed_primary"
	CompletionOLevel  CompletionStatus = "completed_o_level"
	CompletionALevel  CompletionStatus = "completed_a_level"
)

// =========================================================
// MODEL
// =========================================================

type StudentModel struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`

	// Tenant
	StudentSchoolID uuid.UUID `gorm:"column:student_school_id;type:uuid;not null;index:ix_students_school;uniqueIndex:uniq_student_reference,priority:1" json:"student_school_id"`

	// Identity
	StudentReference string `gorm:"column:student_reference;type:varchar(40);not null;uniqueIndex:uniq_student_reference,priority:2" json:"student_reference"`
	StudentFullName  string `gorm:"column:student_full_name;type:varchar(120);not null" json:"student_full_name"`

	// Academic position. Label convention: "Grade N" (primary) / "Form N" (secondary).
	StudentGradeLabel string `gorm:"column:student_grade_label;type:varchar(20);index:ix_students_grade" json:"student_grade_label"`

	StudentIsActive         bool              `gorm:"column:student_is_active;not null;default:true;index:ix_students_active" json:"student_is_active"`
	StudentCompletionStatus *CompletionStatus `gorm:"column:student_completion_status;type:varchar(30)" json:"student_completion_status,omitempty"`

	StudentNotes *string `gorm:"column:student_notes;type:text" json:"student_notes,omitempty"`

	// Timestamps
	StudentCreatedAt time.Time      `gorm:"column:student_created_at;type:timestamptz;not null;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;type:timestamptz;not null;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentModel) TableName() string { return "students" }

// Completed reports whether the student has finished their school phase.
func (m *StudentModel) Completed() bool {
	return m.StudentCompletionStatus != nil && *m.StudentCompletionStatus != ""
}

// AppendNote adds one timestamped line to the free-text notes.
func (m *StudentModel) AppendNote(line string, at time.Time) {
	stamped := at.Format("2006-01-02") + " " + line
	if m.StudentNotes == nil || *m.StudentNotes == "" {
		m.StudentNotes = &stamped
		return
	}
	joined := *m.StudentNotes + "\n" + stamped
	m.StudentNotes = &joined
}
