// file: internals/features/academics/promotion/scheduler/promotion_scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	service "schoolpay_backend/internals/features/academics/promotion/service"
	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	feeService "schoolpay_backend/internals/features/finance/fees/service"
)

// Minimal in-memory stores for driving one tick end to end.

type tickStudentStore struct{}

func (tickStudentStore) ListActiveUncompleted(ctx context.Context, schoolID uuid.UUID) ([]studentModel.StudentModel, error) {
	return []studentModel.StudentModel{{
		StudentID:         uuid.New(),
		StudentSchoolID:   schoolID,
		StudentReference:  "S-001",
		StudentFullName:   "Amara",
		StudentGradeLabel: "Grade 1",
		StudentIsActive:   true,
	}}, nil
}

func (tickStudentStore) Save(ctx context.Context, st *studentModel.StudentModel) error { return nil }

type tickFeeService struct{}

func (tickFeeService) LatestOutstandingCents(ctx context.Context, schoolID, studentID uuid.UUID) (int64, error) {
	return 0, nil
}

func (tickFeeService) CreatePromotionFeeRecord(ctx context.Context, in feeService.PromotionFeeInput) (*feeModel.FeeRecordModel, error) {
	return &feeModel.FeeRecordModel{}, nil
}

// tickConfigStore keeps insertion order so DueOn is deterministic.
type tickConfigStore struct {
	order   []uuid.UUID
	configs map[uuid.UUID]*promoModel.PromotionRunConfigModel
}

func newTickConfigStore(cfgs ...*promoModel.PromotionRunConfigModel) *tickConfigStore {
	s := &tickConfigStore{configs: map[uuid.UUID]*promoModel.PromotionRunConfigModel{}}
	for _, c := range cfgs {
		cp := *c
		s.order = append(s.order, c.PromotionRunConfigID)
		s.configs[c.PromotionRunConfigID] = &cp
	}
	return s
}

func (s *tickConfigStore) ByID(ctx context.Context, id uuid.UUID) (*promoModel.PromotionRunConfigModel, error) {
	c, ok := s.configs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *tickConfigStore) ByCycle(ctx context.Context, schoolID uuid.UUID, year, term int) (*promoModel.PromotionRunConfigModel, error) {
	for _, id := range s.order {
		c := s.configs[id]
		if c.PromotionRunConfigSchoolID == schoolID &&
			c.PromotionRunConfigTargetYear == year &&
			c.PromotionRunConfigTargetTerm == term {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *tickConfigStore) DueOn(ctx context.Context, day time.Time) ([]promoModel.PromotionRunConfigModel, error) {
	var out []promoModel.PromotionRunConfigModel
	for _, id := range s.order {
		c := s.configs[id]
		if c.PromotionRunConfigStatus == promoModel.RunStatusScheduled &&
			c.PromotionRunConfigIsActive &&
			!c.PromotionRunConfigTriggerDate.After(day) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *tickConfigStore) Create(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	if cfg.PromotionRunConfigID == uuid.Nil {
		cfg.PromotionRunConfigID = uuid.New()
	}
	cp := *cfg
	s.order = append(s.order, cfg.PromotionRunConfigID)
	s.configs[cfg.PromotionRunConfigID] = &cp
	return nil
}

func (s *tickConfigStore) Update(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	cp := *cfg
	s.configs[cfg.PromotionRunConfigID] = &cp
	return nil
}

func (s *tickConfigStore) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to promoModel.RunStatus) (bool, error) {
	c, ok := s.configs[id]
	if !ok || c.PromotionRunConfigStatus != from {
		return false, nil
	}
	c.PromotionRunConfigStatus = to
	return true, nil
}

func dueConfig(schoolID uuid.UUID) *promoModel.PromotionRunConfigModel {
	return &promoModel.PromotionRunConfigModel{
		PromotionRunConfigID:          uuid.New(),
		PromotionRunConfigSchoolID:    schoolID,
		PromotionRunConfigTargetYear:  2026,
		PromotionRunConfigTargetTerm:  3,
		PromotionRunConfigTriggerDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		PromotionRunConfigNextYear:    2027,
		PromotionRunConfigNextTerm:    1,
		PromotionRunConfigStatus:      promoModel.RunStatusScheduled,
		PromotionRunConfigIsActive:    true,
		PromotionRunConfigCreatedBy:   "admin:test",
	}
}

// One school blowing up on its tick must not keep the next school's run from
// going through.
func TestRunDueConfigsContinuesAfterFailure(t *testing.T) {
	brokenSchool := uuid.New()
	healthySchool := uuid.New()

	brokenCfg := dueConfig(brokenSchool)
	healthyCfg := dueConfig(healthySchool)
	store := newTickConfigStore(brokenCfg, healthyCfg)

	resolver := func(ctx context.Context, schoolID uuid.UUID) (schoolModel.SchoolType, error) {
		if schoolID == brokenSchool {
			return "", errors.New("school lookup down")
		}
		return schoolModel.SchoolTypePrimary, nil
	}

	orch := service.NewOrchestrator(tickStudentStore{}, tickFeeService{}, nil, resolver)
	lifecycle := service.NewLifecycleService(store, orch, nil)
	lifecycle.Now = func() time.Time { return time.Date(2026, 12, 1, 6, 0, 0, 0, time.UTC) }
	orch.Now = lifecycle.Now

	RunDueConfigs(context.Background(), lifecycle)

	broken, err := store.ByID(context.Background(), brokenCfg.PromotionRunConfigID)
	require.NoError(t, err)
	assert.Equal(t, promoModel.RunStatusFailed, broken.PromotionRunConfigStatus)

	healthy, err := store.ByID(context.Background(), healthyCfg.PromotionRunConfigID)
	require.NoError(t, err)
	assert.Equal(t, promoModel.RunStatusCompleted, healthy.PromotionRunConfigStatus)
	assert.Equal(t, 1, healthy.PromotionRunConfigPromotedCount)

	// The healthy school's rollover still fires.
	next, err := store.ByCycle(context.Background(), healthySchool, 2027, 1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, promoModel.CreatedBySystemRollover, next.PromotionRunConfigCreatedBy)
}

// A tick with nothing due is a no-op.
func TestRunDueConfigsNoDueConfigs(t *testing.T) {
	store := newTickConfigStore()
	orch := service.NewOrchestrator(tickStudentStore{}, tickFeeService{}, nil, func(ctx context.Context, schoolID uuid.UUID) (schoolModel.SchoolType, error) {
		return schoolModel.SchoolTypePrimary, nil
	})
	lifecycle := service.NewLifecycleService(store, orch, nil)
	lifecycle.Now = func() time.Time { return time.Date(2026, 12, 1, 6, 0, 0, 0, time.UTC) }

	RunDueConfigs(context.Background(), lifecycle)

	for _, c := range store.configs {
		assert.Equal(t, promoModel.RunStatusScheduled, c.PromotionRunConfigStatus)
	}
}
