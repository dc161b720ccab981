// file: internals/features/academics/promotion/service/fakes_test.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	promoModel "schoolpay_backend/internals/features/academics/promotion/model"
	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	auditService "schoolpay_backend/internals/features/audit/service"
	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	feeService "schoolpay_backend/internals/features/finance/fees/service"
)

// In-memory stand-ins for the store interfaces. They mimic what the gorm
// stores do (copies out, writes keyed by id) so the engine can be exercised
// without a database.

type fakeStudentStore struct {
	mu         sync.Mutex
	students   []studentModel.StudentModel
	saves      []studentModel.StudentModel
	listErr    error
	listPanic  bool
	saveErrFor map[uuid.UUID]error
}

func (f *fakeStudentStore) ListActiveUncompleted(ctx context.Context, schoolID uuid.UUID) ([]studentModel.StudentModel, error) {
	if f.listPanic {
		panic("student listing blew up")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]studentModel.StudentModel, 0, len(f.students))
	for _, st := range f.students {
		if st.StudentSchoolID == schoolID && st.StudentIsActive && !st.Completed() {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) Save(ctx context.Context, st *studentModel.StudentModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.saveErrFor[st.StudentID]; err != nil {
		return err
	}
	f.saves = append(f.saves, *st)
	for i := range f.students {
		if f.students[i].StudentID == st.StudentID {
			f.students[i] = *st
		}
	}
	return nil
}

func (f *fakeStudentStore) byID(id uuid.UUID) *studentModel.StudentModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.students {
		if f.students[i].StudentID == id {
			st := f.students[i]
			return &st
		}
	}
	return nil
}

func (f *fakeStudentStore) saveCountFor(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.saves {
		if s.StudentID == id {
			n++
		}
	}
	return n
}

type fakeFeeService struct {
	mu             sync.Mutex
	outstanding    map[uuid.UUID]int64
	outstandingErr error
	created        []feeService.PromotionFeeInput
	createErr      error
}

func (f *fakeFeeService) LatestOutstandingCents(ctx context.Context, schoolID, studentID uuid.UUID) (int64, error) {
	if f.outstandingErr != nil {
		return 0, f.outstandingErr
	}
	return f.outstanding[studentID], nil
}

func (f *fakeFeeService) CreatePromotionFeeRecord(ctx context.Context, in feeService.PromotionFeeInput) (*feeModel.FeeRecordModel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	f.created = append(f.created, in)
	f.mu.Unlock()
	return &feeModel.FeeRecordModel{
		FeeRecordSchoolID:  in.SchoolID,
		FeeRecordStudentID: in.StudentID,
		FeeRecordYear:      in.Year,
		FeeRecordTerm:      in.Term,
	}, nil
}

type fakeAuditWriter struct {
	mu      sync.Mutex
	entries []auditService.Entry
}

func (f *fakeAuditWriter) Write(ctx context.Context, e auditService.Entry) error {
	f.mu.Lock()
	f.entries = append(f.entries, e)
	f.mu.Unlock()
	return nil
}

func (f *fakeAuditWriter) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

type fakeConfigStore struct {
	mu      sync.Mutex
	configs map[uuid.UUID]*promoModel.PromotionRunConfigModel
}

func newFakeConfigStore(cfgs ...*promoModel.PromotionRunConfigModel) *fakeConfigStore {
	f := &fakeConfigStore{configs: map[uuid.UUID]*promoModel.PromotionRunConfigModel{}}
	for _, c := range cfgs {
		if c.PromotionRunConfigID == uuid.Nil {
			c.PromotionRunConfigID = uuid.New()
		}
		cp := *c
		f.configs[c.PromotionRunConfigID] = &cp
	}
	return f
}

func (f *fakeConfigStore) ByID(ctx context.Context, id uuid.UUID) (*promoModel.PromotionRunConfigModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConfigStore) ByCycle(ctx context.Context, schoolID uuid.UUID, year, term int) (*promoModel.PromotionRunConfigModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.PromotionRunConfigSchoolID == schoolID &&
			c.PromotionRunConfigTargetYear == year &&
			c.PromotionRunConfigTargetTerm == term {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConfigStore) DueOn(ctx context.Context, day time.Time) ([]promoModel.PromotionRunConfigModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []promoModel.PromotionRunConfigModel
	for _, c := range f.configs {
		if c.PromotionRunConfigStatus == promoModel.RunStatusScheduled &&
			c.PromotionRunConfigIsActive &&
			!c.PromotionRunConfigTriggerDate.After(day) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConfigStore) Create(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if cfg.PromotionRunConfigID == uuid.Nil {
		cfg.PromotionRunConfigID = uuid.New()
	}
	cp := *cfg
	f.configs[cfg.PromotionRunConfigID] = &cp
	return nil
}

func (f *fakeConfigStore) Update(ctx context.Context, cfg *promoModel.PromotionRunConfigModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cfg
	f.configs[cfg.PromotionRunConfigID] = &cp
	return nil
}

func (f *fakeConfigStore) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to promoModel.RunStatus) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[id]
	if !ok || c.PromotionRunConfigStatus != from {
		return false, nil
	}
	c.PromotionRunConfigStatus = to
	return true, nil
}

func (f *fakeConfigStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.configs)
}

func staticSchoolType(t schoolModel.SchoolType) SchoolTypeResolver {
	return func(ctx context.Context, schoolID uuid.UUID) (schoolModel.SchoolType, error) {
		return t, nil
	}
}

func newStudent(schoolID uuid.UUID, ref, name, grade string) studentModel.StudentModel {
	return studentModel.StudentModel{
		StudentID:         uuid.New(),
		StudentSchoolID:   schoolID,
		StudentReference:  ref,
		StudentFullName:   name,
		StudentGradeLabel: grade,
		StudentIsActive:   true,
	}
}
