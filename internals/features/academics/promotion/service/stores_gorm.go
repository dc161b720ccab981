// file: internals/features/academics/promotion/service/stores_gorm.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

// =========================================================
// Student store
// =========================================================

type gormStudentStore struct {
	db *gorm.DB
}

func NewStudentStore(db *gorm.DB) StudentStore {
	return &gormStudentStore{db: db}
}

func (s *gormStudentStore) ListActiveUncompleted(ctx context.Context, schoolID uuid.UUID) ([]studentModel.StudentModel, error) {
	var students []studentModel.StudentModel
	err := s.db.WithContext(ctx).
		Where("student_school_id = ?", schoolID).
		Where("student_is_active = TRUE").
		Where("student_completion_status IS NULL OR student_completion_status = ''").
		Find(&students).Error
	return students, err
}

func (s *gormStudentStore) Save(ctx context.Context, st *studentModel.StudentModel) error {
	return s.db.WithContext(ctx).Save(st).Error
}

// =========================================================
// Config store
// =========================================================

type gormConfigStore struct {
	db *gorm.DB
}

func NewConfigStore(db *gorm.DB) ConfigStore {
	return &gormConfigStore{db: db}
}

func (s *gormConfigStore) ByID(ctx context.Context, id uuid.UUID) (*promoModel.PromotionRunConfigModel, error) {
	var cfg promoModel.PromotionRunConfigModel
	err := s.db.WithContext(ctx).
		Where("promotion_run_config_id = ?", id).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *gormConfigStore) ByCycle(ctx context.Context, schoolID uuid.UUID, year, term int) (*promoModel.PromotionRunConfigModel, error) {
	var cfg promoModel.PromotionRunConfigModel
	err := s.db.WithContext(ctx).
		Where("promotion_run_config_school_id = ? AND promotion_run_config_target_year = ? AND promotion_run_config_target_term = ?",
			schoolID, year, term).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *gormConfigStore) DueOn(ctx context.Context, day time.Time) ([]promoModel.PromotionRunConfigModel, error) {
	var configs []promoModel.PromotionRunConfigModel
	err := s.db.WithContext(ctx).
		Where("promotion_run_config_status = ?", promoModel.RunStatusScheduled).
		Where("promotion_run_config_is_active = TRUE").
		Where("promotion_run_config_trigger_date <= ?", day).
		Find(&configs).Error
	return configs, err
}

func (s *gormConfigStore) Create(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	return s.db.WithContext(ctx).Create(cfg).Error
}

func (s *gormConfigStore) Update(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	return s.db.WithContext(ctx).Save(cfg).Error
}

// CompareAndSwapStatus is the row-level guard: the UPDATE only lands when the
// row is still in `from`, so concurrent triggers cannot both win.
func (s *gormConfigStore) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to promoModel.RunStatus) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&promoModel.PromotionRunConfigModel{}).
		Where("promotion_run_config_id = ? AND promotion_run_config_status = ? AND promotion_run_config_deleted_at IS NULL", id, from).
		Updates(map[string]any{
			"promotion_run_config_status":     to,
			"promotion_run_config_updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// =========================================================
// School type resolver
// =========================================================

func NewSchoolTypeResolver(db *gorm.DB) SchoolTypeResolver {
	return func(ctx context.Context, schoolID uuid.UUID) (schoolModel.SchoolType, error) {
		var school schoolModel.SchoolModel
		err := db.WithContext(ctx).
			Where("school_id = ? AND school_is_active = TRUE", schoolID).
			First(&school).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fiber.NewError(fiber.StatusNotFound, "school not found or inactive")
		}
		if err != nil {
			return "", err
		}
		if !school.SchoolType.Valid() {
			return "", fiber.NewError(fiber.StatusInternalServerError, "school has an invalid school_type")
		}
		return school.SchoolType, nil
	}
}
