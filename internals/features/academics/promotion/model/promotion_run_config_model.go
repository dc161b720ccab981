// file: internals/features/academics/promotion/model/promotion_run_config_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUM - run status
//
// scheduled --(cancel)---> cancelled             [terminal]
// scheduled --(trigger)--> in_progress
// in_progress --(success)-> completed            [terminal, rollover]
// in_progress --(error)---> failed               [terminal]
// =========================================================

type RunStatus string

const (
	RunStatusScheduled  RunStatus = "scheduled"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// Creator tag for configs made by the rollover path rather than an admin.
const CreatedBySystemRollover = "system-rollover"

// =========================================================
// MODEL promotion_run_configs - one per school per cycle
// =========================================================

type PromotionRunConfigModel struct {
	// PK
	PromotionRunConfigID uuid.UUID `gorm:"column:promotion_run_config_id;type:uuid;default:gen_random_uuid();primaryKey" json:"promotion_run_config_id"`

	// Tenant
	PromotionRunConfigSchoolID uuid.UUID `gorm:"column:promotion_run_config_school_id;type:uuid;not null;index:ix_promotion_configs_school;uniqueIndex:uniq_promotion_config_cycle,priority:1" json:"promotion_run_config_school_id"`

	// Target cycle (the one the run promotes INTO)
	PromotionRunConfigTargetYear int `gorm:"column:promotion_run_config_target_year;type:smallint;not null;uniqueIndex:uniq_promotion_config_cycle,priority:2" json:"promotion_run_config_target_year"`
	PromotionRunConfigTargetTerm int `gorm:"column:promotion_run_config_target_term;type:smallint;not null;uniqueIndex:uniq_promotion_config_cycle,priority:3" json:"promotion_run_config_target_term"`

	// End-of-cycle date the scheduler fires on
	PromotionRunConfigTriggerDate time.Time `gorm:"column:promotion_run_config_trigger_date;type:date;not null;index:ix_promotion_configs_trigger" json:"promotion_run_config_trigger_date"`

	// Next cycle for automatic rollover
	PromotionRunConfigNextYear int `gorm:"column:promotion_run_config_next_year;type:smallint;not null" json:"promotion_run_config_next_year"`
	PromotionRunConfigNextTerm int `gorm:"column:promotion_run_config_next_term;type:smallint;not null" json:"promotion_run_config_next_term"`

	PromotionRunConfigCarryForward bool `gorm:"column:promotion_run_config_carry_forward;not null;default:true" json:"promotion_run_config_carry_forward"`

	// Fee structures keyed by DESTINATION grade label + fallback
	PromotionRunConfigFeeStructuresByGrade datatypes.JSON `gorm:"column:promotion_run_config_fee_structures_by_grade;type:jsonb" json:"promotion_run_config_fee_structures_by_grade,omitempty"`
	PromotionRunConfigDefaultFeeStructure  *uuid.UUID     `gorm:"column:promotion_run_config_default_fee_structure;type:uuid" json:"promotion_run_config_default_fee_structure,omitempty"`

	// Lifecycle
	PromotionRunConfigStatus     RunStatus  `gorm:"column:promotion_run_config_status;type:varchar(20);not null;default:'scheduled';index:ix_promotion_configs_status" json:"promotion_run_config_status"`
	PromotionRunConfigExecutedAt *time.Time `gorm:"column:promotion_run_config_executed_at;type:timestamptz" json:"promotion_run_config_executed_at,omitempty"`

	// Result counters copied from the run summary
	PromotionRunConfigPromotedCount  int `gorm:"column:promotion_run_config_promoted_count;not null;default:0" json:"promotion_run_config_promoted_count"`
	PromotionRunConfigCompletedCount int `gorm:"column:promotion_run_config_completed_count;not null;default:0" json:"promotion_run_config_completed_count"`
	PromotionRunConfigErrorCount     int `gorm:"column:promotion_run_config_error_count;not null;default:0" json:"promotion_run_config_error_count"`

	PromotionRunConfigNotes *string `gorm:"column:promotion_run_config_notes;type:text" json:"promotion_run_config_notes,omitempty"`

	PromotionRunConfigIsActive  bool   `gorm:"column:promotion_run_config_is_active;not null;default:true" json:"promotion_run_config_is_active"`
	PromotionRunConfigCreatedBy string `gorm:"column:promotion_run_config_created_by;type:varchar(60);not null;default:'admin'" json:"promotion_run_config_created_by"`

	// Timestamps
	PromotionRunConfigCreatedAt time.Time      `gorm:"column:promotion_run_config_created_at;type:timestamptz;not null;autoCreateTime" json:"promotion_run_config_created_at"`
	PromotionRunConfigUpdatedAt time.Time      `gorm:"column:promotion_run_config_updated_at;type:timestamptz;not null;autoUpdateTime" json:"promotion_run_config_updated_at"`
	PromotionRunConfigDeletedAt gorm.DeletedAt `gorm:"column:promotion_run_config_deleted_at;index" json:"-"`
}

func (PromotionRunConfigModel) TableName() string { return "promotion_run_configs" }
