// file: internals/features/finance/fees/model/fee_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM - how the record came to exist
// =========================================================

type FeeRecordCategory string

const (
	FeeRecordCategoryEnrolment FeeRecordCategory = "enrolment"
	FeeRecordCategoryPromotion FeeRecordCategory = "promotion"
	FeeRecordCategoryManual    FeeRecordCategory = "manual"
)

// =========================================================
// MODEL fee_records - one per student per cycle
// =========================================================

type FeeRecordModel struct {
	// PK
	FeeRecordID uuid.UUID `gorm:"column:fee_record_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_record_id"`

	// Tenant + owner
	FeeRecordSchoolID  uuid.UUID `gorm:"column:fee_record_school_id;type:uuid;not null;index:ix_fee_records_school;uniqueIndex:uniq_fee_record_cycle,priority:1" json:"fee_record_school_id"`
	FeeRecordStudentID uuid.UUID `gorm:"column:fee_record_student_id;type:uuid;not null;index:ix_fee_records_student;uniqueIndex:uniq_fee_record_cycle,priority:2" json:"fee_record_student_id"`

	// Cycle
	FeeRecordYear int `gorm:"column:fee_record_year;type:smallint;not null;uniqueIndex:uniq_fee_record_cycle,priority:3" json:"fee_record_year"`
	FeeRecordTerm int `gorm:"column:fee_record_term;type:smallint;not null;uniqueIndex:uniq_fee_record_cycle,priority:4" json:"fee_record_term"`

	// Grade the record was billed for
	FeeRecordGradeLabel string `gorm:"column:fee_record_grade_label;type:varchar(20);not null" json:"fee_record_grade_label"`

	FeeRecordCategory FeeRecordCategory `gorm:"column:fee_record_category;type:varchar(20);not null;default:'manual'" json:"fee_record_category"`

	// Amounts (cents). outstanding = gross - discount + previous_balance - paid
	FeeRecordGrossCents           int64 `gorm:"column:fee_record_gross_cents;not null;check:fee_record_gross_cents>=0" json:"fee_record_gross_cents"`
	FeeRecordDiscountCents        int64 `gorm:"column:fee_record_discount_cents;not null;default:0" json:"fee_record_discount_cents"`
	FeeRecordPreviousBalanceCents int64 `gorm:"column:fee_record_previous_balance_cents;not null;default:0" json:"fee_record_previous_balance_cents"`
	FeeRecordPaidCents            int64 `gorm:"column:fee_record_paid_cents;not null;default:0" json:"fee_record_paid_cents"`
	FeeRecordOutstandingCents     int64 `gorm:"column:fee_record_outstanding_cents;not null;default:0;index:ix_fee_records_outstanding" json:"fee_record_outstanding_cents"`

	// Timestamps (explicit hooks below)
	FeeRecordCreatedAt time.Time      `gorm:"column:fee_record_created_at;type:timestamptz;not null;default:now()" json:"fee_record_created_at"`
	FeeRecordUpdatedAt time.Time      `gorm:"column:fee_record_updated_at;type:timestamptz;not null;default:now()" json:"fee_record_updated_at"`
	FeeRecordDeletedAt gorm.DeletedAt `gorm:"column:fee_record_deleted_at;index" json:"-"`
}

func (FeeRecordModel) TableName() string { return "fee_records" }

// =========================================================
// HOOKS
// =========================================================

func (m *FeeRecordModel) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.FeeRecordCreatedAt.IsZero() {
		m.FeeRecordCreatedAt = now
	}
	m.FeeRecordUpdatedAt = now
	m.Recompute()
	return nil
}

func (m *FeeRecordModel) BeforeUpdate(tx *gorm.DB) error {
	m.FeeRecordUpdatedAt = time.Now()
	return nil
}

// Recompute refreshes the derived outstanding balance.
func (m *FeeRecordModel) Recompute() {
	m.FeeRecordOutstandingCents = m.FeeRecordGrossCents - m.FeeRecordDiscountCents +
		m.FeeRecordPreviousBalanceCents - m.FeeRecordPaidCents
}
