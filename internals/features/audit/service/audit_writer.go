// file: internals/features/audit/service/audit_writer.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "schoolpay_backend/internals/features/audit/model"
)

// Entry is one structured audit event. Before/After are marshalled to jsonb.
type Entry struct {
	SchoolID    uuid.UUID
	ActorUserID *uuid.UUID
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Before      any
	After       any
}

// Writer is the audit sink. Interface so callers are easy to test.
type Writer interface {
	Write(ctx context.Context, e Entry) error
}

type dbWriter struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) Writer {
	return &dbWriter{db: db}
}

func (w *dbWriter) Write(ctx context.Context, e Entry) error {
	row := auditModel.AuditLogModel{
		AuditLogSchoolID:    e.SchoolID,
		AuditLogActorUserID: e.ActorUserID,
		AuditLogAction:      e.Action,
		AuditLogEntityType:  e.EntityType,
		AuditLogEntityID:    e.EntityID,
	}
	if e.Before != nil {
		if b, err := json.Marshal(e.Before); err == nil {
			row.AuditLogBefore = b
		} else {
			log.Printf("[AUDIT] marshal before failed action=%s err=%v", e.Action, err)
		}
	}
	if e.After != nil {
		if b, err := json.Marshal(e.After); err == nil {
			row.AuditLogAfter = b
		} else {
			log.Printf("[AUDIT] marshal after failed action=%s err=%v", e.Action, err)
		}
	}
	return w.db.WithContext(ctx).Create(&row).Error
}
