// file: internals/features/academics/promotion/service/progression.go
package service

import (
	"fmt"
	"strconv"
	"strings"

	schoolModel "schoolpay_backend/internals/features/academics/schools/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

// =========================================================
// LEVEL - grade labels parsed once at the boundary into a
// tagged variant; the rule table never touches raw strings.
// =========================================================

type Band string

const (
	BandPrimary Band = "primary"
	BandOLevel  Band = "o_level"
	BandALevel  Band = "a_level"
)

type Level struct {
	Band   Band
	Number int
}

// Label renders the level back to its conventional form.
func (l Level) Label() string {
	if l.Band == BandPrimary {
		return fmt.Sprintf("Grade %d", l.Number)
	}
	return fmt.Sprintf("Form %d", l.Number)
}

// UnknownGradeError marks a label the rule table cannot place. Callers treat
// it as a per-student error, never as a run abort.
type UnknownGradeError struct {
	Label string
}

func (e *UnknownGradeError) Error() string {
	return fmt.Sprintf("unknown grade label %q", e.Label)
}

// ParseLevel parses "Grade N" / "Form N" against the school type.
// Grades only exist in primary/combined schools, forms in secondary/combined.
// Forms 1-4 are the O-level band, forms 5-6 the A-level band.
func ParseLevel(label string, schoolType schoolModel.SchoolType) (Level, error) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) != 2 {
		return Level{}, &UnknownGradeError{Label: label}
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return Level{}, &UnknownGradeError{Label: label}
	}

	switch strings.ToLower(fields[0]) {
	case "grade":
		if schoolType != schoolModel.SchoolTypePrimary && schoolType != schoolModel.SchoolTypeCombined {
			return Level{}, &UnknownGradeError{Label: label}
		}
		if n < 1 || n > 7 {
			return Level{}, &UnknownGradeError{Label: label}
		}
		return Level{Band: BandPrimary, Number: n}, nil
	case "form":
		if schoolType != schoolModel.SchoolTypeSecondary && schoolType != schoolModel.SchoolTypeCombined {
			return Level{}, &UnknownGradeError{Label: label}
		}
		switch {
		case n >= 1 && n <= 4:
			return Level{Band: BandOLevel, Number: n}, nil
		case n == 5 || n == 6:
			return Level{Band: BandALevel, Number: n}, nil
		}
		return Level{}, &UnknownGradeError{Label: label}
	}
	return Level{}, &UnknownGradeError{Label: label}
}

// =========================================================
// RULE TABLE
// =========================================================

// NextStep is the rule table's output: either the next level or completion.
type NextStep struct {
	Completed bool
	Next      Level
	Category  studentModel.CompletionStatus
}

// NextLevel applies the static progression rules:
//   - Grade 1..6 → Grade n+1; Grade 7 → completed_primary
//   - Form 1..3  → Form n+1;  Form 4 → completed_o_level
//   - Form 5 → Form 6;        Form 6 → completed_a_level
func NextLevel(current Level) (NextStep, error) {
	switch current.Band {
	case BandPrimary:
		if current.Number >= 1 && current.Number <= 6 {
			return NextStep{Next: Level{Band: BandPrimary, Number: current.Number + 1}}, nil
		}
		if current.Number == 7 {
			return NextStep{Completed: true, Category: studentModel.CompletionPrimary}, nil
		}
	case BandOLevel:
		if current.Number >= 1 && current.Number <= 3 {
			return NextStep{Next: Level{Band: BandOLevel, Number: current.Number + 1}}, nil
		}
		if current.Number == 4 {
			return NextStep{Completed: true, Category: studentModel.CompletionOLevel}, nil
		}
	case BandALevel:
		if current.Number == 5 {
			return NextStep{Next: Level{Band: BandALevel, Number: 6}}, nil
		}
		if current.Number == 6 {
			return NextStep{Completed: true, Category: studentModel.CompletionALevel}, nil
		}
	}
	return NextStep{}, &UnknownGradeError{Label: current.Label()}
}
