// file: internals/features/academics/promotion/service/orchestrator.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"schoolpay_backend/internals/features/academics/promotion/dto"
	auditService "schoolpay_backend/internals/features/audit/service"
	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	feeService "schoolpay_backend/internals/features/finance/fees/service"
)

// RunRequest is the orchestrator's input, assembled by the lifecycle manager
// from the cycle config plus any manual trigger options.
type RunRequest struct {
	TargetYear int
	TargetTerm int

	CarryForward bool

	ExcludedStudentIDs []uuid.UUID
	Notes              string

	// Destination grade label → fee structure, with fallback.
	FeeStructuresByGrade  map[string]uuid.UUID
	DefaultFeeStructureID *uuid.UUID
}

// Orchestrator drives one promotion run end to end.
type Orchestrator struct {
	Students    StudentStore
	Fees        FeeService
	Audit       auditService.Writer
	SchoolTypes SchoolTypeResolver
	Now         func() time.Time
}

func NewOrchestrator(students StudentStore, fees FeeService, audit auditService.Writer, schoolTypes SchoolTypeResolver) *Orchestrator {
	return &Orchestrator{
		Students:    students,
		Fees:        fees,
		Audit:       audit,
		SchoolTypes: schoolTypes,
		Now:         time.Now,
	}
}

// Run executes the snapshot-then-apply pass. Only snapshot construction
// (school type resolution, student listing) is fatal; every per-student
// failure is recorded in the summary and the pass continues.
func (o *Orchestrator) Run(ctx context.Context, schoolID uuid.UUID, req RunRequest) (*dto.PromotionSummary, error) {
	schoolType, err := o.SchoolTypes(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("resolve school type: %w", err)
	}

	students, err := o.Students.ListActiveUncompleted(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	excluded := make(map[uuid.UUID]struct{}, len(req.ExcludedStudentIDs))
	for _, id := range req.ExcludedStudentIDs {
		excluded[id] = struct{}{}
	}

	// The snapshot is fully materialized here; nothing below regroups or
	// re-reads students, so a student promoted into grade B during this run
	// can never be picked up by B's group.
	snap := BuildSnapshot(students, excluded)

	summary := &dto.PromotionSummary{
		TotalProcessed: snap.Total,
		ExcludedCount:  len(req.ExcludedStudentIDs),
	}

	applier := &Applier{Students: o.Students, Audit: o.Audit, Now: o.Now}

	for _, fromLabel := range snap.GradeLabels() {
		group := snap.Groups[fromLabel]
		row := dto.GradeBreakdown{FromGrade: fromLabel, StudentCount: len(group)}

		// Group target for the breakdown; per-student Decide repeats the
		// lookup so one bad label stays a per-student error.
		if level, perr := ParseLevel(fromLabel, schoolType); perr == nil {
			if step, serr := NextLevel(level); serr == nil {
				if step.Completed {
					row.ToGrade = dto.ToGradeCompleted
				} else {
					row.ToGrade = step.Next.Label()
				}
			}
		}

		for i := range group {
			st := &group[i]

			decision, err := Decide(st, schoolType)
			if err == nil {
				err = applier.Apply(ctx, st, decision, req.Notes)
			}
			if err != nil {
				row.ErrorCount++
				summary.ErrorCount++
				summary.Errors = append(summary.Errors, dto.PromotionError{
					StudentID:  st.StudentID,
					FullName:   st.StudentFullName,
					GradeLabel: fromLabel,
					Message:    err.Error(),
				})
				log.Printf("[PROMOTION] student %s (%s) failed in %s: %v", st.StudentID, st.StudentReference, fromLabel, err)
				continue
			}

			row.SuccessCount++
			if decision.Completed {
				summary.CompletedCount++
				summary.CompletedStudents = append(summary.CompletedStudents, dto.CompletedStudent{
					StudentID: st.StudentID,
					Reference: st.StudentReference,
					FullName:  st.StudentFullName,
					Category:  decision.Category,
				})
				continue
			}

			summary.PromotedCount++
			summary.PromotedStudentIDs = append(summary.PromotedStudentIDs, st.StudentID)
			o.createFeeRecord(ctx, schoolID, st.StudentID, decision, req, summary)
		}

		summary.GradeBreakdown = append(summary.GradeBreakdown, row)
	}

	summary.Message = fmt.Sprintf(
		"Promotion run complete: %d promoted, %d completed, %d errors (%d students processed, %d excluded)",
		summary.PromotedCount, summary.CompletedCount, summary.ErrorCount,
		summary.TotalProcessed, summary.ExcludedCount,
	)
	return summary, nil
}

// createFeeRecord creates the destination-cycle fee record for a freshly
// promoted student. Failure here is a soft-fail: the promotion stands, the
// student lands on the fee_skipped list and no run error is counted.
func (o *Orchestrator) createFeeRecord(ctx context.Context, schoolID, studentID uuid.UUID, decision PromotionDecision, req RunRequest, summary *dto.PromotionSummary) {
	structureID, ok := req.FeeStructuresByGrade[decision.ToLabel]
	if !ok || structureID == uuid.Nil {
		if req.DefaultFeeStructureID == nil {
			log.Printf("[PROMOTION] no fee structure for grade %q, student %s promoted without fee record", decision.ToLabel, studentID)
			summary.FeeSkippedStudentIDs = append(summary.FeeSkippedStudentIDs, studentID)
			return
		}
		structureID = *req.DefaultFeeStructureID
	}

	var previousBalance int64
	if req.CarryForward {
		bal, err := o.Fees.LatestOutstandingCents(ctx, schoolID, studentID)
		if err != nil {
			log.Printf("[PROMOTION] carry-forward lookup failed student=%s err=%v", studentID, err)
			summary.FeeSkippedStudentIDs = append(summary.FeeSkippedStudentIDs, studentID)
			return
		}
		previousBalance = bal
	}

	_, err := o.Fees.CreatePromotionFeeRecord(ctx, feeService.PromotionFeeInput{
		SchoolID:             schoolID,
		StudentID:            studentID,
		Year:                 req.TargetYear,
		Term:                 req.TargetTerm,
		GradeLabel:           decision.ToLabel,
		StructureID:          structureID,
		PreviousBalanceCents: previousBalance,
		Category:             feeModel.FeeRecordCategoryPromotion,
	})
	if err != nil {
		log.Printf("[PROMOTION] fee record creation failed student=%s grade=%s err=%v", studentID, decision.ToLabel, err)
		summary.FeeSkippedStudentIDs = append(summary.FeeSkippedStudentIDs, studentID)
	}
}
