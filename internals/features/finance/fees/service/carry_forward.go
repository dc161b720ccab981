// file: internals/features/finance/fees/service/carry_forward.go
package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	feeModel "schoolpay_backend/internals/features/finance/fees/model"
)

// PromotionFeeInput carries everything the promotion engine supplies for the
// destination-grade fee record. PreviousBalanceCents is already zero when the
// run's carry-forward flag is off; this package never looks at progression.
type PromotionFeeInput struct {
	SchoolID             uuid.UUID
	StudentID            uuid.UUID
	Year                 int
	Term                 int
	GradeLabel           string
	StructureID          uuid.UUID
	PreviousBalanceCents int64
	Category             feeModel.FeeRecordCategory
}

// ComputeTotals is the carry-forward law:
// gross = the sum of components; outstanding = gross - discount + previousBalance - paid.
func ComputeTotals(components []feeModel.FeeComponent, discountCents, previousBalanceCents, paidCents int64) (gross int64, outstanding int64) {
	for _, comp := range components {
		gross += comp.AmountCents
	}
	outstanding = gross - discountCents + previousBalanceCents - paidCents
	return gross, outstanding
}

// BuildPromotionFeeRecord assembles the new-cycle record with paid = 0.
func BuildPromotionFeeRecord(in PromotionFeeInput, components []feeModel.FeeComponent, discountCents int64) *feeModel.FeeRecordModel {
	gross, outstanding := ComputeTotals(components, discountCents, in.PreviousBalanceCents, 0)
	return &feeModel.FeeRecordModel{
		FeeRecordSchoolID:             in.SchoolID,
		FeeRecordStudentID:            in.StudentID,
		FeeRecordYear:                 in.Year,
		FeeRecordTerm:                 in.Term,
		FeeRecordGradeLabel:           in.GradeLabel,
		FeeRecordCategory:             in.Category,
		FeeRecordGrossCents:           gross,
		FeeRecordDiscountCents:        discountCents,
		FeeRecordPreviousBalanceCents: in.PreviousBalanceCents,
		FeeRecordPaidCents:            0,
		FeeRecordOutstandingCents:     outstanding,
	}
}

// =========================================================
// SERVICE
// =========================================================

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// LatestOutstandingCents returns the outstanding balance of the student's most
// recent fee record, or 0 when they have none yet.
func (s *Service) LatestOutstandingCents(ctx context.Context, schoolID, studentID uuid.UUID) (int64, error) {
	var rec feeModel.FeeRecordModel
	err := s.DB.WithContext(ctx).
		Where("fee_record_school_id = ? AND fee_record_student_id = ?", schoolID, studentID).
		Order("fee_record_year DESC, fee_record_term DESC, fee_record_created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.FeeRecordOutstandingCents, nil
}

// CreatePromotionFeeRecord resolves the fee structure, computes the totals and
// inserts the destination-cycle record.
func (s *Service) CreatePromotionFeeRecord(ctx context.Context, in PromotionFeeInput) (*feeModel.FeeRecordModel, error) {
	var structure feeModel.FeeStructureModel
	err := s.DB.WithContext(ctx).
		Where("fee_structure_id = ? AND fee_structure_school_id = ?", in.StructureID, in.SchoolID).
		First(&structure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "fee structure not found")
	}
	if err != nil {
		return nil, err
	}

	components, err := structure.Components()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "fee structure components unreadable: "+err.Error())
	}

	rec := BuildPromotionFeeRecord(in, components, structure.FeeStructureDiscountCents)
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ApplyPayment adds a settled amount to the record and refreshes outstanding.
func (s *Service) ApplyPayment(ctx context.Context, schoolID, feeRecordID uuid.UUID, amountCents int64) (*feeModel.FeeRecordModel, error) {
	if amountCents <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "payment amount must be positive")
	}

	var rec feeModel.FeeRecordModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("fee_record_id = ? AND fee_record_school_id = ?", feeRecordID, schoolID).
			First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "fee record not found")
			}
			return err
		}
		rec.FeeRecordPaidCents += amountCents
		rec.Recompute()
		return tx.Model(&feeModel.FeeRecordModel{}).
			Where("fee_record_id = ?", rec.FeeRecordID).
			Updates(map[string]any{
				"fee_record_paid_cents":        rec.FeeRecordPaidCents,
				"fee_record_outstanding_cents": rec.FeeRecordOutstandingCents,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
