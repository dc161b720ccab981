// file: internals/features/academics/promotion/service/applier.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	auditService "schoolpay_backend/internals/features/audit/service"
)

// PromotionDecision is the intended mutation for one student, computed from
// the snapshot before anything is written.
type PromotionDecision struct {
	StudentID uuid.UUID
	FromLabel string
	Completed bool
	ToLabel   string // empty when Completed
	Category  studentModel.CompletionStatus
}

// Decide parses the student's current label and consults the rule table.
// Pure: no writes, no I/O.
func Decide(st *studentModel.StudentModel, schoolType schoolModel.SchoolType) (PromotionDecision, error) {
	level, err := ParseLevel(st.StudentGradeLabel, schoolType)
	if err != nil {
		return PromotionDecision{}, err
	}
	step, err := NextLevel(level)
	if err != nil {
		return PromotionDecision{}, err
	}
	d := PromotionDecision{
		StudentID: st.StudentID,
		FromLabel: st.StudentGradeLabel,
		Completed: step.Completed,
		Category:  step.Category,
	}
	if !step.Completed {
		d.ToLabel = step.Next.Label()
	}
	return d, nil
}

// Applier writes one decision back to the student row.
type Applier struct {
	Students StudentStore
	Audit    auditService.Writer
	Now      func() time.Time
}

// Apply mutates the student per the decision and persists the change.
// Completion deactivates the student so later active-student queries no
// longer see them; promotion overwrites the grade label and appends a
// timestamped note. Audit failures are logged only.
func (a *Applier) Apply(ctx context.Context, st *studentModel.StudentModel, d PromotionDecision, notes string) error {
	before := struct {
		GradeLabel string `json:"grade_label"`
		IsActive   bool   `json:"is_active"`
	}{st.StudentGradeLabel, st.StudentIsActive}

	now := a.Now()
	if d.Completed {
		category := d.Category
		st.StudentCompletionStatus = &category
		st.StudentIsActive = false
		st.AppendNote(fmt.Sprintf("Completed school phase (%s)", category), now)
	} else {
		st.StudentGradeLabel = d.ToLabel
		line := fmt.Sprintf("Promoted from %s to %s", d.FromLabel, d.ToLabel)
		if notes != "" {
			line += " - " + notes
		}
		st.AppendNote(line, now)
	}

	if err := a.Students.Save(ctx, st); err != nil {
		return err
	}

	action := "student.promoted"
	if d.Completed {
		action = "student.completed"
	}
	if a.Audit != nil {
		err := a.Audit.Write(ctx, auditService.Entry{
			SchoolID:   st.StudentSchoolID,
			Action:     action,
			EntityType: "student",
			EntityID:   st.StudentID,
			Before:     before,
			After: struct {
				GradeLabel string                         `json:"grade_label"`
				IsActive   bool                           `json:"is_active"`
				Completion *studentModel.CompletionStatus `json:"completion,omitempty"`
			}{st.StudentGradeLabel, st.StudentIsActive, st.StudentCompletionStatus},
		})
		if err != nil {
			log.Printf("[PROMOTION] audit write failed student=%s action=%s err=%v", st.StudentID, action, err)
		}
	}
	return nil
}
