// file: internals/features/academics/promotion/service/snapshot_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

func TestBuildSnapshot(t *testing.T) {
	schoolID := uuid.New()

	a := newStudent(schoolID, "S-001", "Amara", "Grade 1")
	b := newStudent(schoolID, "S-002", "Brian", "Grade 1")
	c := newStudent(schoolID, "S-003", "Chipo", "Grade 2")

	inactive := newStudent(schoolID, "S-004", "Dana", "Grade 2")
	inactive.StudentIsActive = false

	done := newStudent(schoolID, "S-005", "Eli", "Grade 7")
	completion := studentModel.CompletionPrimary
	done.StudentCompletionStatus = &completion

	blank := newStudent(schoolID, "S-006", "Farai", "   ")

	excludedStudent := newStudent(schoolID, "S-007", "Grace", "Grade 1")
	excluded := map[uuid.UUID]struct{}{excludedStudent.StudentID: {}}

	snap := BuildSnapshot([]studentModel.StudentModel{a, b, c, inactive, done, blank, excludedStudent}, excluded)

	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 1, snap.SkippedBlankGrade)
	require.Len(t, snap.Groups["Grade 1"], 2)
	require.Len(t, snap.Groups["Grade 2"], 1)
	assert.NotContains(t, snap.Groups, "Grade 7")
	assert.Equal(t, []string{"Grade 1", "Grade 2"}, snap.GradeLabels())
}

func TestBuildSnapshotHoldsCopies(t *testing.T) {
	schoolID := uuid.New()
	students := []studentModel.StudentModel{newStudent(schoolID, "S-001", "Amara", "Grade 1")}

	snap := BuildSnapshot(students, nil)
	students[0].StudentGradeLabel = "Grade 9"

	assert.Equal(t, "Grade 1", snap.Groups["Grade 1"][0].StudentGradeLabel)
}
