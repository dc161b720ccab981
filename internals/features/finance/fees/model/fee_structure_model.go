// file: internals/features/finance/fees/model/fee_structure_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeeComponent is one line of a structure, e.g. {"name":"tuition","amount_cents":10000}.
type FeeComponent struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

// =========================================================
// MODEL fee_structures - per school + grade label
// =========================================================

type FeeStructureModel struct {
	// PK
	FeeStructureID uuid.UUID `gorm:"column:fee_structure_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_structure_id"`

	// Tenant
	FeeStructureSchoolID uuid.UUID `gorm:"column:fee_structure_school_id;type:uuid;not null;index:ix_fee_structures_school" json:"fee_structure_school_id"`

	// Destination grade this structure prices ("Grade 4", "Form 2", ...)
	FeeStructureGradeLabel string `gorm:"column:fee_structure_grade_label;type:varchar(20);not null;index:ix_fee_structures_grade" json:"fee_structure_grade_label"`

	// Cycle the structure applies to
	FeeStructureYear int `gorm:"column:fee_structure_year;type:smallint;not null" json:"fee_structure_year"`
	FeeStructureTerm int `gorm:"column:fee_structure_term;type:smallint;not null" json:"fee_structure_term"`

	// Component lines (jsonb) + flat discount
	FeeStructureComponents    datatypes.JSON `gorm:"column:fee_structure_components;type:jsonb;not null" json:"fee_structure_components"`
	FeeStructureDiscountCents int64          `gorm:"column:fee_structure_discount_cents;not null;default:0;check:fee_structure_discount_cents>=0" json:"fee_structure_discount_cents"`

	FeeStructureIsActive bool `gorm:"column:fee_structure_is_active;not null;default:true" json:"fee_structure_is_active"`

	// Timestamps
	FeeStructureCreatedAt time.Time      `gorm:"column:fee_structure_created_at;type:timestamptz;not null;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time      `gorm:"column:fee_structure_updated_at;type:timestamptz;not null;autoUpdateTime" json:"fee_structure_updated_at"`
	FeeStructureDeletedAt gorm.DeletedAt `gorm:"column:fee_structure_deleted_at;index" json:"-"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }

// Components decodes the jsonb lines.
func (m *FeeStructureModel) Components() ([]FeeComponent, error) {
	var out []FeeComponent
	if len(m.FeeStructureComponents) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(m.FeeStructureComponents, &out); err != nil {
		return nil, err
	}
	return out, nil
}
