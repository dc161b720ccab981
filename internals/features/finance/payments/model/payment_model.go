// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM - payment status
// =========================================================

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSettled PaymentStatus = "settled"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// =========================================================
// MODEL payments - one gateway attempt against a fee record
// =========================================================

type PaymentModel struct {
	// PK
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	// Tenant + target
	PaymentSchoolID    uuid.UUID `gorm:"column:payment_school_id;type:uuid;not null;index:ix_payments_school" json:"payment_school_id"`
	PaymentFeeRecordID uuid.UUID `gorm:"column:payment_fee_record_id;type:uuid;not null;index:ix_payments_fee_record" json:"payment_fee_record_id"`

	// Gateway order reference (unique)
	PaymentOrderID string `gorm:"column:payment_order_id;type:varchar(64);not null;uniqueIndex:uniq_payment_order" json:"payment_order_id"`

	PaymentAmountCents int64 `gorm:"column:payment_amount_cents;not null;check:payment_amount_cents>0" json:"payment_amount_cents"`

	PaymentStatus    PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'pending';index:ix_payments_status" json:"payment_status"`
	PaymentSnapToken *string       `gorm:"column:payment_snap_token;type:varchar(120)" json:"payment_snap_token,omitempty"`
	PaymentSettledAt *time.Time    `gorm:"column:payment_settled_at;type:timestamptz" json:"payment_settled_at,omitempty"`

	// Timestamps
	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;type:timestamptz;not null;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;type:timestamptz;not null;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (PaymentModel) TableName() string { return "payments" }
