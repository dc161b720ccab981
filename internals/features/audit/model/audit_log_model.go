// file: internals/features/audit/model/audit_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// =========================================================
// MODEL audit_logs - append-only, no soft delete
// =========================================================

type AuditLogModel struct {
	// PK
	AuditLogID uuid.UUID `gorm:"column:audit_log_id;type:uuid;default:gen_random_uuid();primaryKey" json:"audit_log_id"`

	// Tenant
	AuditLogSchoolID uuid.UUID `gorm:"column:audit_log_school_id;type:uuid;not null;index:ix_audit_logs_school" json:"audit_log_school_id"`

	// Actor (nil for system/scheduler actions)
	AuditLogActorUserID *uuid.UUID `gorm:"column:audit_log_actor_user_id;type:uuid" json:"audit_log_actor_user_id,omitempty"`

	// What happened to what
	AuditLogAction     string    `gorm:"column:audit_log_action;type:varchar(60);not null;index:ix_audit_logs_action" json:"audit_log_action"`
	AuditLogEntityType string    `gorm:"column:audit_log_entity_type;type:varchar(40);not null" json:"audit_log_entity_type"`
	AuditLogEntityID   uuid.UUID `gorm:"column:audit_log_entity_id;type:uuid;not null;index:ix_audit_logs_entity" json:"audit_log_entity_id"`

	// Before/after snapshots (jsonb)
	AuditLogBefore datatypes.JSON `gorm:"column:audit_log_before;type:jsonb" json:"audit_log_before,omitempty"`
	AuditLogAfter  datatypes.JSON `gorm:"column:audit_log_after;type:jsonb" json:"audit_log_after,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"column:audit_log_created_at;type:timestamptz;not null;autoCreateTime;index:ix_audit_logs_created" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }
