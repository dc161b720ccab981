// file: internals/features/academics/promotion/service/lifecycle.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolpay_backend/internals/features/academics/promotion/dto"
	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	auditService "schoolpay_backend/internals/features/audit/service"
)

// LifecycleService owns the per-school cycle configs and the run state
// machine. Both the manual trigger endpoint and the daily scheduler end up in
// Execute; the conditional scheduled→in_progress swap is the only entry.
type LifecycleService struct {
	Configs ConfigStore
	Orch    *Orchestrator
	Audit   auditService.Writer
	Now     func() time.Time
}

func NewLifecycleService(configs ConfigStore, orch *Orchestrator, audit auditService.Writer) *LifecycleService {
	return &LifecycleService{Configs: configs, Orch: orch, Audit: audit, Now: time.Now}
}

// CreateOrUpdateConfig upserts the config for (school, target cycle). An
// existing scheduled config is updated in place; a terminal or running one
// conflicts (a new cycle gets a new row instead).
func (s *LifecycleService) CreateOrUpdateConfig(ctx context.Context, schoolID uuid.UUID, in dto.PromotionRunConfigUpsertDTO, createdBy string) (*promoModel.PromotionRunConfigModel, error) {
	existing, err := s.Configs.ByCycle(ctx, schoolID, in.TargetYear, in.TargetTerm)
	if err != nil {
		return nil, err
	}

	var feeStructures []byte
	if len(in.FeeStructuresByGrade) > 0 {
		if feeStructures, err = json.Marshal(in.FeeStructuresByGrade); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "fee_structures_by_grade is not serializable")
		}
	}

	if existing != nil {
		if existing.PromotionRunConfigStatus != promoModel.RunStatusScheduled {
			return nil, fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("config for cycle %d/%d is %s and can no longer be edited", in.TargetYear, in.TargetTerm, existing.PromotionRunConfigStatus))
		}
		existing.PromotionRunConfigTriggerDate = in.TriggerDate
		existing.PromotionRunConfigNextYear = in.NextYear
		existing.PromotionRunConfigNextTerm = in.NextTerm
		existing.PromotionRunConfigCarryForward = in.CarryForward
		existing.PromotionRunConfigFeeStructuresByGrade = feeStructures
		existing.PromotionRunConfigDefaultFeeStructure = in.DefaultFeeStructureID
		existing.PromotionRunConfigNotes = in.Notes
		if err := s.Configs.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	cfg := &promoModel.PromotionRunConfigModel{
		PromotionRunConfigSchoolID:             schoolID,
		PromotionRunConfigTargetYear:           in.TargetYear,
		PromotionRunConfigTargetTerm:           in.TargetTerm,
		PromotionRunConfigTriggerDate:          in.TriggerDate,
		PromotionRunConfigNextYear:             in.NextYear,
		PromotionRunConfigNextTerm:             in.NextTerm,
		PromotionRunConfigCarryForward:         in.CarryForward,
		PromotionRunConfigFeeStructuresByGrade: feeStructures,
		PromotionRunConfigDefaultFeeStructure:  in.DefaultFeeStructureID,
		PromotionRunConfigStatus:               promoModel.RunStatusScheduled,
		PromotionRunConfigNotes:                in.Notes,
		PromotionRunConfigIsActive:             true,
		PromotionRunConfigCreatedBy:            createdBy,
	}
	if err := s.Configs.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigForSchool loads a config and enforces tenant ownership.
func (s *LifecycleService) GetConfigForSchool(ctx context.Context, schoolID, id uuid.UUID) (*promoModel.PromotionRunConfigModel, error) {
	cfg, err := s.Configs.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.PromotionRunConfigSchoolID != schoolID {
		return nil, fiber.NewError(fiber.StatusNotFound, "promotion config not found")
	}
	return cfg, nil
}

// GetDueToday returns the configs the scheduler should fire this tick.
func (s *LifecycleService) GetDueToday(ctx context.Context) ([]promoModel.PromotionRunConfigModel, error) {
	now := s.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.Configs.DueOn(ctx, day)
}

// Cancel moves a scheduled config to cancelled. Any other state conflicts.
func (s *LifecycleService) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	ok, err := s.Configs.CompareAndSwapStatus(ctx, id, promoModel.RunStatusScheduled, promoModel.RunStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		cfg, err := s.Configs.ByID(ctx, id)
		if err != nil {
			return err
		}
		if cfg == nil {
			return fiber.NewError(fiber.StatusNotFound, "promotion config not found")
		}
		return fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("only a scheduled run can be cancelled (current status: %s)", cfg.PromotionRunConfigStatus))
	}

	if cfg, err := s.Configs.ByID(ctx, id); err == nil && cfg != nil {
		note := "Cancelled: " + reason
		if cfg.PromotionRunConfigNotes != nil && *cfg.PromotionRunConfigNotes != "" {
			note = *cfg.PromotionRunConfigNotes + "\n" + note
		}
		cfg.PromotionRunConfigNotes = &note
		if err := s.Configs.Update(ctx, cfg); err != nil {
			log.Printf("[PROMOTION] cancel note write failed config=%s err=%v", id, err)
		}
		s.auditTransition(ctx, cfg, "promotion_run.cancelled")
	}
	return nil
}

// Trigger runs a scheduled config now (manual path and scheduler path).
func (s *LifecycleService) Trigger(ctx context.Context, id uuid.UUID, excluded []uuid.UUID) (*dto.PromotionSummary, error) {
	cfg, err := s.Configs.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "promotion config not found")
	}
	return s.Execute(ctx, cfg, excluded)
}

// Execute drives one run. The scheduled→in_progress transition is a
// compare-and-swap, so a concurrent trigger on the same config loses with a
// conflict instead of racing into a double run. Whatever happens afterwards,
// the config always leaves in_progress: completed on success (then rollover),
// failed on error or panic.
func (s *LifecycleService) Execute(ctx context.Context, cfg *promoModel.PromotionRunConfigModel, excluded []uuid.UUID) (*dto.PromotionSummary, error) {
	// A run carries no cancellation token: it proceeds to a terminal status
	// even when the caller's request deadline lapses mid-run.
	runCtx := context.WithoutCancel(ctx)

	ok, err := s.Configs.CompareAndSwapStatus(runCtx, cfg.PromotionRunConfigID, promoModel.RunStatusScheduled, promoModel.RunStatusInProgress)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("run for cycle %d/%d is not in a scheduled state", cfg.PromotionRunConfigTargetYear, cfg.PromotionRunConfigTargetTerm))
	}
	cfg.PromotionRunConfigStatus = promoModel.RunStatusInProgress
	log.Printf("[PROMOTION] run started school=%s cycle=%d/%d", cfg.PromotionRunConfigSchoolID, cfg.PromotionRunConfigTargetYear, cfg.PromotionRunConfigTargetTerm)

	req, err := s.buildRunRequest(cfg, excluded)
	if err != nil {
		s.finalizeFailed(runCtx, cfg, err)
		return nil, err
	}

	var summary *dto.PromotionSummary
	runErr := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("promotion run panicked: %v", r)
			}
		}()
		summary, err = s.Orch.Run(runCtx, cfg.PromotionRunConfigSchoolID, req)
		return err
	}()

	if runErr != nil {
		s.finalizeFailed(runCtx, cfg, runErr)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "promotion run failed: "+runErr.Error())
	}

	s.finalizeCompleted(runCtx, cfg, summary)

	if err := s.rollover(runCtx, cfg); err != nil {
		// Rollover trouble never un-completes the run.
		log.Printf("[PROMOTION] rollover failed school=%s cycle=%d/%d err=%v",
			cfg.PromotionRunConfigSchoolID, cfg.PromotionRunConfigNextYear, cfg.PromotionRunConfigNextTerm, err)
	}

	return summary, nil
}

func (s *LifecycleService) buildRunRequest(cfg *promoModel.PromotionRunConfigModel, excluded []uuid.UUID) (RunRequest, error) {
	req := RunRequest{
		TargetYear:            cfg.PromotionRunConfigTargetYear,
		TargetTerm:            cfg.PromotionRunConfigTargetTerm,
		CarryForward:          cfg.PromotionRunConfigCarryForward,
		ExcludedStudentIDs:    excluded,
		DefaultFeeStructureID: cfg.PromotionRunConfigDefaultFeeStructure,
	}
	if cfg.PromotionRunConfigNotes != nil {
		req.Notes = *cfg.PromotionRunConfigNotes
	}
	if len(cfg.PromotionRunConfigFeeStructuresByGrade) > 0 {
		if err := json.Unmarshal(cfg.PromotionRunConfigFeeStructuresByGrade, &req.FeeStructuresByGrade); err != nil {
			return RunRequest{}, fmt.Errorf("fee_structures_by_grade unreadable: %w", err)
		}
	}
	return req, nil
}

func (s *LifecycleService) finalizeCompleted(ctx context.Context, cfg *promoModel.PromotionRunConfigModel, summary *dto.PromotionSummary) {
	now := s.Now()
	cfg.PromotionRunConfigStatus = promoModel.RunStatusCompleted
	cfg.PromotionRunConfigExecutedAt = &now
	cfg.PromotionRunConfigPromotedCount = summary.PromotedCount
	cfg.PromotionRunConfigCompletedCount = summary.CompletedCount
	cfg.PromotionRunConfigErrorCount = summary.ErrorCount
	msg := summary.Message
	if cfg.PromotionRunConfigNotes != nil && *cfg.PromotionRunConfigNotes != "" {
		msg = *cfg.PromotionRunConfigNotes + "\n" + msg
	}
	cfg.PromotionRunConfigNotes = &msg
	if err := s.Configs.Update(ctx, cfg); err != nil {
		log.Printf("[PROMOTION] completed-status write failed config=%s err=%v", cfg.PromotionRunConfigID, err)
	}
	s.auditTransition(ctx, cfg, "promotion_run.completed")
	log.Printf("[PROMOTION] run completed school=%s cycle=%d/%d promoted=%d completed=%d errors=%d",
		cfg.PromotionRunConfigSchoolID, cfg.PromotionRunConfigTargetYear, cfg.PromotionRunConfigTargetTerm,
		summary.PromotedCount, summary.CompletedCount, summary.ErrorCount)
}

func (s *LifecycleService) finalizeFailed(ctx context.Context, cfg *promoModel.PromotionRunConfigModel, runErr error) {
	now := s.Now()
	cfg.PromotionRunConfigStatus = promoModel.RunStatusFailed
	cfg.PromotionRunConfigExecutedAt = &now
	msg := "Run failed: " + runErr.Error()
	if cfg.PromotionRunConfigNotes != nil && *cfg.PromotionRunConfigNotes != "" {
		msg = *cfg.PromotionRunConfigNotes + "\n" + msg
	}
	cfg.PromotionRunConfigNotes = &msg
	if err := s.Configs.Update(ctx, cfg); err != nil {
		log.Printf("[PROMOTION] failed-status write failed config=%s err=%v", cfg.PromotionRunConfigID, err)
	}
	s.auditTransition(ctx, cfg, "promotion_run.failed")
	log.Printf("[PROMOTION] run failed school=%s cycle=%d/%d err=%v",
		cfg.PromotionRunConfigSchoolID, cfg.PromotionRunConfigTargetYear, cfg.PromotionRunConfigTargetTerm, runErr)
}

// rollover creates the next cycle's scheduled config after a completed run.
// Idempotent: an existing config for the next cycle is left untouched.
func (s *LifecycleService) rollover(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	existing, err := s.Configs.ByCycle(ctx, cfg.PromotionRunConfigSchoolID, cfg.PromotionRunConfigNextYear, cfg.PromotionRunConfigNextTerm)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("[PROMOTION] rollover skipped, config for cycle %d/%d already exists (school=%s)",
			cfg.PromotionRunConfigNextYear, cfg.PromotionRunConfigNextTerm, cfg.PromotionRunConfigSchoolID)
		return nil
	}

	yearDelta := cfg.PromotionRunConfigNextYear - cfg.PromotionRunConfigTargetYear

	next := &promoModel.PromotionRunConfigModel{
		PromotionRunConfigSchoolID:             cfg.PromotionRunConfigSchoolID,
		PromotionRunConfigTargetYear:           cfg.PromotionRunConfigNextYear,
		PromotionRunConfigTargetTerm:           cfg.PromotionRunConfigNextTerm,
		PromotionRunConfigTriggerDate:          cfg.PromotionRunConfigTriggerDate.AddDate(1, 0, 0),
		PromotionRunConfigNextYear:             cfg.PromotionRunConfigNextYear + max(yearDelta, 1),
		PromotionRunConfigNextTerm:             cfg.PromotionRunConfigNextTerm,
		PromotionRunConfigCarryForward:         cfg.PromotionRunConfigCarryForward,
		PromotionRunConfigFeeStructuresByGrade: cfg.PromotionRunConfigFeeStructuresByGrade,
		PromotionRunConfigDefaultFeeStructure:  cfg.PromotionRunConfigDefaultFeeStructure,
		PromotionRunConfigStatus:               promoModel.RunStatusScheduled,
		PromotionRunConfigIsActive:             true,
		PromotionRunConfigCreatedBy:            promoModel.CreatedBySystemRollover,
	}
	if err := s.Configs.Create(ctx, next); err != nil {
		return err
	}
	s.auditTransition(ctx, next, "promotion_run.rolled_over")
	log.Printf("[PROMOTION] rollover created config school=%s cycle=%d/%d trigger=%s",
		next.PromotionRunConfigSchoolID, next.PromotionRunConfigTargetYear, next.PromotionRunConfigTargetTerm,
		next.PromotionRunConfigTriggerDate.Format("2006-01-02"))
	return nil
}

func (s *LifecycleService) auditTransition(ctx context.Context, cfg *promoModel.PromotionRunConfigModel, action string) {
	if s.Audit == nil {
		return
	}
	err := s.Audit.Write(ctx, auditService.Entry{
		SchoolID:   cfg.PromotionRunConfigSchoolID,
		Action:     action,
		EntityType: "promotion_run_config",
		EntityID:   cfg.PromotionRunConfigID,
		After: fiber.Map{
			"status":      cfg.PromotionRunConfigStatus,
			"target_year": cfg.PromotionRunConfigTargetYear,
			"target_term": cfg.PromotionRunConfigTargetTerm,
		},
	})
	if err != nil {
		log.Printf("[PROMOTION] audit write failed config=%s action=%s err=%v", cfg.PromotionRunConfigID, action, err)
	}
}
