// file: internals/features/academics/promotion/service/snapshot.go
package service

import (
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

// Snapshot is the fixed grouping of eligible students by current grade label,
// materialized in full before any mutation in the run. Students promoted
// mid-run can therefore never re-enter a later group: the groups hold copies
// taken at one point in time, and no group is recomputed.
type Snapshot struct {
	Groups map[string][]studentModel.StudentModel
	Total  int
	// Students skipped for a blank grade label (logged, not errors).
	SkippedBlankGrade int
}

// GradeLabels returns the group keys in stable order for the breakdown.
func (s *Snapshot) GradeLabels() []string {
	labels := make([]string, 0, len(s.Groups))
	for label := range s.Groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// BuildSnapshot groups the given students by current grade label, dropping
// inactive students, students already carrying a completion status, students
// in the exclusion set and students with a blank grade label.
func BuildSnapshot(students []studentModel.StudentModel, excluded map[uuid.UUID]struct{}) *Snapshot {
	snap := &Snapshot{Groups: map[string][]studentModel.StudentModel{}}

	for _, st := range students {
		if !st.StudentIsActive || st.Completed() {
			continue
		}
		if _, skip := excluded[st.StudentID]; skip {
			continue
		}
		label := strings.TrimSpace(st.StudentGradeLabel)
		if label == "" {
			snap.SkippedBlankGrade++
			log.Printf("[PROMOTION] skipping student %s (%s): blank grade label", st.StudentID, st.StudentReference)
			continue
		}
		snap.Groups[label] = append(snap.Groups[label], st)
		snap.Total++
	}
	return snap
}
