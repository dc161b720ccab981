// file: internals/features/academics/promotion/service/lifecycle_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolpay_backend/internals/features/academics/promotion/dto"
	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

type lifecycleFixture struct {
	schoolID uuid.UUID
	students *fakeStudentStore
	fees     *fakeFeeService
	configs  *fakeConfigStore
	audit    *fakeAuditWriter
	svc      *LifecycleService
}

func newLifecycleFixture(t *testing.T, cfgs ...*promoModel.PromotionRunConfigModel) *lifecycleFixture {
	t.Helper()
	f := &lifecycleFixture{
		schoolID: uuid.New(),
		students: &fakeStudentStore{},
		fees:     &fakeFeeService{},
		configs:  newFakeConfigStore(cfgs...),
		audit:    &fakeAuditWriter{},
	}
	orch := NewOrchestrator(f.students, f.fees, f.audit, staticSchoolType(schoolModel.SchoolTypePrimary))
	f.svc = NewLifecycleService(f.configs, orch, f.audit)
	f.svc.Now = func() time.Time { return time.Date(2026, 12, 1, 6, 0, 0, 0, time.UTC) }
	orch.Now = f.svc.Now
	return f
}

func scheduledConfig(schoolID uuid.UUID) *promoModel.PromotionRunConfigModel {
	return &promoModel.PromotionRunConfigModel{
		PromotionRunConfigID:           uuid.New(),
		PromotionRunConfigSchoolID:     schoolID,
		PromotionRunConfigTargetYear:   2026,
		PromotionRunConfigTargetTerm:   3,
		PromotionRunConfigTriggerDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		PromotionRunConfigNextYear:     2027,
		PromotionRunConfigNextTerm:     1,
		PromotionRunConfigCarryForward: true,
		PromotionRunConfigStatus:       promoModel.RunStatusScheduled,
		PromotionRunConfigIsActive:     true,
		PromotionRunConfigCreatedBy:    "admin:test",
	}
}

func requireFiberStatus(t *testing.T, err error, status int) {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, status, fe.Code)
}

func TestTriggerCompletesRunAndRollsOver(t *testing.T) {
	f := newLifecycleFixture(t)
	cfg := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), cfg))

	f.students.students = []studentModel.StudentModel{
		newStudent(f.schoolID, "S-001", "Amara", "Grade 1"),
		newStudent(f.schoolID, "S-002", "Brian", "Grade 7"),
	}

	summary, err := f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PromotedCount)
	assert.Equal(t, 1, summary.CompletedCount)

	stored, err := f.configs.ByID(context.Background(), cfg.PromotionRunConfigID)
	require.NoError(t, err)
	assert.Equal(t, promoModel.RunStatusCompleted, stored.PromotionRunConfigStatus)
	require.NotNil(t, stored.PromotionRunConfigExecutedAt)
	assert.Equal(t, 1, stored.PromotionRunConfigPromotedCount)
	assert.Equal(t, 1, stored.PromotionRunConfigCompletedCount)
	assert.Equal(t, 0, stored.PromotionRunConfigErrorCount)
	require.NotNil(t, stored.PromotionRunConfigNotes)
	assert.Contains(t, *stored.PromotionRunConfigNotes, "Promotion run complete")

	// Rollover: a fresh scheduled config for the next cycle, one year out.
	next, err := f.configs.ByCycle(context.Background(), f.schoolID, 2027, 1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, promoModel.RunStatusScheduled, next.PromotionRunConfigStatus)
	assert.Equal(t, time.Date(2027, 12, 1, 0, 0, 0, 0, time.UTC), next.PromotionRunConfigTriggerDate)
	assert.Equal(t, 2028, next.PromotionRunConfigNextYear)
	assert.True(t, next.PromotionRunConfigCarryForward)
	assert.Equal(t, promoModel.CreatedBySystemRollover, next.PromotionRunConfigCreatedBy)

	assert.Contains(t, f.audit.actions(), "promotion_run.completed")
	assert.Contains(t, f.audit.actions(), "promotion_run.rolled_over")
}

// A lapsed request deadline must not bleed into the run: the stores reject
// work on a dead context, yet the run still promotes everyone, finalizes
// completed and rolls over.
func TestTriggerOutlivesRequestDeadline(t *testing.T) {
	f := newLifecycleFixture(t)
	cfg := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), cfg))

	g1 := newStudent(f.schoolID, "S-001", "Amara", "Grade 1")
	g2 := newStudent(f.schoolID, "S-002", "Brian", "Grade 2")
	f.students.students = []studentModel.StudentModel{g1, g2}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	require.Error(t, ctx.Err())

	summary, err := f.svc.Trigger(ctx, cfg.PromotionRunConfigID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PromotedCount)
	assert.Equal(t, 0, summary.ErrorCount)

	assert.Equal(t, "Grade 2", f.students.byID(g1.StudentID).StudentGradeLabel)
	assert.Equal(t, "Grade 3", f.students.byID(g2.StudentID).StudentGradeLabel)

	stored, _ := f.configs.ByID(context.Background(), cfg.PromotionRunConfigID)
	assert.Equal(t, promoModel.RunStatusCompleted, stored.PromotionRunConfigStatus)
	assert.Equal(t, 2, stored.PromotionRunConfigPromotedCount)

	next, _ := f.configs.ByCycle(context.Background(), f.schoolID, 2027, 1)
	require.NotNil(t, next)
	assert.Equal(t, promoModel.RunStatusScheduled, next.PromotionRunConfigStatus)
}

func TestTriggerConflictsWhenNotScheduled(t *testing.T) {
	for _, status := range []promoModel.RunStatus{
		promoModel.RunStatusInProgress,
		promoModel.RunStatusCompleted,
		promoModel.RunStatusFailed,
		promoModel.RunStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newLifecycleFixture(t)
			cfg := scheduledConfig(f.schoolID)
			cfg.PromotionRunConfigStatus = status
			require.NoError(t, f.configs.Create(context.Background(), cfg))
			f.students.students = []studentModel.StudentModel{newStudent(f.schoolID, "S-001", "Amara", "Grade 1")}

			_, err := f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
			requireFiberStatus(t, err, fiber.StatusConflict)
			assert.Empty(t, f.students.saves, "no student mutated on a refused trigger")
		})
	}
}

func TestSecondTriggerLoses(t *testing.T) {
	f := newLifecycleFixture(t)
	cfg := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), cfg))
	f.students.students = []studentModel.StudentModel{newStudent(f.schoolID, "S-001", "Amara", "Grade 1")}

	_, err := f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
	require.NoError(t, err)

	_, err = f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
	requireFiberStatus(t, err, fiber.StatusConflict)
	assert.Equal(t, 1, f.students.saveCountFor(f.students.students[0].StudentID), "students promoted once, not twice")
}

func TestTriggerUnknownConfig(t *testing.T) {
	f := newLifecycleFixture(t)
	_, err := f.svc.Trigger(context.Background(), uuid.New(), nil)
	requireFiberStatus(t, err, fiber.StatusNotFound)
}

func TestExecuteFailureMarksFailed(t *testing.T) {
	f := newLifecycleFixture(t)
	cfg := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), cfg))
	f.students.listErr = errors.New("students table unavailable")

	_, err := f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
	require.Error(t, err)

	stored, _ := f.configs.ByID(context.Background(), cfg.PromotionRunConfigID)
	assert.Equal(t, promoModel.RunStatusFailed, stored.PromotionRunConfigStatus)
	require.NotNil(t, stored.PromotionRunConfigExecutedAt)
	require.NotNil(t, stored.PromotionRunConfigNotes)
	assert.Contains(t, *stored.PromotionRunConfigNotes, "Run failed")
	assert.Contains(t, f.audit.actions(), "promotion_run.failed")

	// No rollover after a failure.
	next, _ := f.configs.ByCycle(context.Background(), f.schoolID, 2027, 1)
	assert.Nil(t, next)
}

func TestExecutePanicStillResolvesStatus(t *testing.T) {
	f := newLifecycleFixture(t)
	cfg := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), cfg))
	f.students.listPanic = true

	_, err := f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	stored, _ := f.configs.ByID(context.Background(), cfg.PromotionRunConfigID)
	assert.Equal(t, promoModel.RunStatusFailed, stored.PromotionRunConfigStatus, "config never sticks in in_progress")
}

func TestRolloverIsIdempotent(t *testing.T) {
	f := newLifecycleFixture(t)
	cfg := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), cfg))

	manual := &promoModel.PromotionRunConfigModel{
		PromotionRunConfigID:          uuid.New(),
		PromotionRunConfigSchoolID:    f.schoolID,
		PromotionRunConfigTargetYear:  2027,
		PromotionRunConfigTargetTerm:  1,
		PromotionRunConfigTriggerDate: time.Date(2027, 11, 15, 0, 0, 0, 0, time.UTC),
		PromotionRunConfigNextYear:    2028,
		PromotionRunConfigNextTerm:    1,
		PromotionRunConfigStatus:      promoModel.RunStatusScheduled,
		PromotionRunConfigIsActive:    true,
		PromotionRunConfigCreatedBy:   "admin:test",
	}
	require.NoError(t, f.configs.Create(context.Background(), manual))
	before := f.configs.count()

	_, err := f.svc.Trigger(context.Background(), cfg.PromotionRunConfigID, nil)
	require.NoError(t, err)

	assert.Equal(t, before, f.configs.count(), "no duplicate next-cycle config")
	kept, _ := f.configs.ByID(context.Background(), manual.PromotionRunConfigID)
	assert.Equal(t, "admin:test", kept.PromotionRunConfigCreatedBy, "manually created config untouched")
	assert.Equal(t, manual.PromotionRunConfigTriggerDate, kept.PromotionRunConfigTriggerDate)
}

func TestCancel(t *testing.T) {
	t.Run("scheduled cancels with reason note", func(t *testing.T) {
		f := newLifecycleFixture(t)
		cfg := scheduledConfig(f.schoolID)
		require.NoError(t, f.configs.Create(context.Background(), cfg))

		require.NoError(t, f.svc.Cancel(context.Background(), cfg.PromotionRunConfigID, "term extended by two weeks"))

		stored, _ := f.configs.ByID(context.Background(), cfg.PromotionRunConfigID)
		assert.Equal(t, promoModel.RunStatusCancelled, stored.PromotionRunConfigStatus)
		require.NotNil(t, stored.PromotionRunConfigNotes)
		assert.Contains(t, *stored.PromotionRunConfigNotes, "Cancelled: term extended by two weeks")
		assert.Contains(t, f.audit.actions(), "promotion_run.cancelled")
	})

	t.Run("completed conflicts", func(t *testing.T) {
		f := newLifecycleFixture(t)
		cfg := scheduledConfig(f.schoolID)
		cfg.PromotionRunConfigStatus = promoModel.RunStatusCompleted
		require.NoError(t, f.configs.Create(context.Background(), cfg))

		err := f.svc.Cancel(context.Background(), cfg.PromotionRunConfigID, "too late")
		requireFiberStatus(t, err, fiber.StatusConflict)
	})

	t.Run("missing is not found", func(t *testing.T) {
		f := newLifecycleFixture(t)
		err := f.svc.Cancel(context.Background(), uuid.New(), "nothing there")
		requireFiberStatus(t, err, fiber.StatusNotFound)
	})
}

func TestCreateOrUpdateConfig(t *testing.T) {
	in := dto.PromotionRunConfigUpsertDTO{
		TargetYear:   2026,
		TargetTerm:   3,
		TriggerDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		NextYear:     2027,
		NextTerm:     1,
		CarryForward: true,
	}

	t.Run("creates scheduled config", func(t *testing.T) {
		f := newLifecycleFixture(t)
		cfg, err := f.svc.CreateOrUpdateConfig(context.Background(), f.schoolID, in, "admin:u1")
		require.NoError(t, err)
		assert.Equal(t, promoModel.RunStatusScheduled, cfg.PromotionRunConfigStatus)
		assert.True(t, cfg.PromotionRunConfigIsActive)
		assert.Equal(t, "admin:u1", cfg.PromotionRunConfigCreatedBy)
	})

	t.Run("same cycle updates in place", func(t *testing.T) {
		f := newLifecycleFixture(t)
		first, err := f.svc.CreateOrUpdateConfig(context.Background(), f.schoolID, in, "admin:u1")
		require.NoError(t, err)

		update := in
		update.TriggerDate = in.TriggerDate.AddDate(0, 0, 7)
		second, err := f.svc.CreateOrUpdateConfig(context.Background(), f.schoolID, update, "admin:u2")
		require.NoError(t, err)

		assert.Equal(t, first.PromotionRunConfigID, second.PromotionRunConfigID)
		assert.Equal(t, update.TriggerDate, second.PromotionRunConfigTriggerDate)
		assert.Equal(t, 1, f.configs.count())
	})

	t.Run("executed cycle conflicts", func(t *testing.T) {
		f := newLifecycleFixture(t)
		cfg := scheduledConfig(f.schoolID)
		cfg.PromotionRunConfigStatus = promoModel.RunStatusCompleted
		require.NoError(t, f.configs.Create(context.Background(), cfg))

		_, err := f.svc.CreateOrUpdateConfig(context.Background(), f.schoolID, in, "admin:u1")
		requireFiberStatus(t, err, fiber.StatusConflict)
	})
}

func TestGetDueToday(t *testing.T) {
	f := newLifecycleFixture(t)

	due := scheduledConfig(f.schoolID)
	require.NoError(t, f.configs.Create(context.Background(), due))

	future := scheduledConfig(uuid.New())
	future.PromotionRunConfigID = uuid.New()
	future.PromotionRunConfigTriggerDate = time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.configs.Create(context.Background(), future))

	got, err := f.svc.GetDueToday(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.PromotionRunConfigID, got[0].PromotionRunConfigID)
}
