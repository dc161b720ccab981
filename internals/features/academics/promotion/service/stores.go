// file: internals/features/academics/promotion/service/stores.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	feeService "schoolpay_backend/internals/features/finance/fees/service"
)

// Small interfaces so the engine is easy to fake in tests.

type StudentStore interface {
	// ListActiveUncompleted returns all active students of the school whose
	// completion status is empty. Soft-deleted rows are excluded.
	ListActiveUncompleted(ctx context.Context, schoolID uuid.UUID) ([]studentModel.StudentModel, error)
	Save(ctx context.Context, st *studentModel.StudentModel) error
}

type ConfigStore interface {
	ByID(ctx context.Context, id uuid.UUID) (*promoModel.PromotionRunConfigModel, error)
	ByCycle(ctx context.Context, schoolID uuid.UUID, year, term int) (*promoModel.PromotionRunConfigModel, error)
	// DueOn returns scheduled, active configs whose trigger date is on or
	// before the given day, across all schools.
	DueOn(ctx context.Context, day time.Time) ([]promoModel.PromotionRunConfigModel, error)
	Create(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error
	Update(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error
	// CompareAndSwapStatus performs the guarded transition and reports whether
	// exactly one row moved. This is the only path into in_progress.
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to promoModel.RunStatus) (bool, error)
}

type FeeService interface {
	LatestOutstandingCents(ctx context.Context, schoolID, studentID uuid.UUID) (int64, error)
	CreatePromotionFeeRecord(ctx context.Context, in feeService.PromotionFeeInput) (*feeModel.FeeRecordModel, error)
}

// SchoolTypeResolver supplies the tenant's school-type classification. A
// resolution failure is fatal to the whole run.
type SchoolTypeResolver func(ctx context.Context, schoolID uuid.UUID) (schoolModel.SchoolType, error)
