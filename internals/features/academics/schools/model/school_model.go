// file: internals/features/academics/schools/model/school_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM - school type decides which progression band applies
// =========================================================

type SchoolType string

const (
	SchoolTypePrimary   SchoolType = "primary"
	SchoolTypeSecondary SchoolType = "secondary"
	SchoolTypeCombined  SchoolType = "combined"
)

func (t SchoolType) Valid() bool {
	switch t {
	case SchoolTypePrimary, SchoolTypeSecondary, SchoolTypeCombined:
		return true
	}
	return false
}

// =========================================================
// MODEL
// =========================================================

type SchoolModel struct {
	// PK
	SchoolID uuid.UUID `gorm:"column:school_id;type:uuid;default:gen_random_uuid();primaryKey" json:"school_id"`

	SchoolName string     `gorm:"column:school_name;type:varchar(120);not null" json:"school_name"`
	SchoolType SchoolType `gorm:"column:school_type;type:varchar(20);not null;default:'primary'" json:"school_type"`

	SchoolIsActive bool `gorm:"column:school_is_active;not null;default:true" json:"school_is_active"`

	// Timestamps
	SchoolCreatedAt time.Time      `gorm:"column:school_created_at;type:timestamptz;not null;autoCreateTime" json:"school_created_at"`
	SchoolUpdatedAt time.Time      `gorm:"column:school_updated_at;type:timestamptz;not null;autoUpdateTime" json:"school_updated_at"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"-"`
}

func (SchoolModel) TableName() string { return "schools" }
