package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditLog is an immutable record of a state-changing action. Entries are
// appended on every successful mutation and are never updated or deleted by
// the application.
type AuditLog struct {
	ID         uuid.UUID       `gorm:"primaryKey" json:"id"`
	EntityType string          `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity" json:"entityType"`
	EntityID   string          `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity" json:"entityId"`
	Action     string          `gorm:"type:varchar(20);not null;index" json:"action"`
	ActorID    string          `gorm:"type:varchar(50);not null" json:"actorId"`
	Timestamp  time.Time       `gorm:"not null;index:idx_audit_logs_timestamp" json:"timestamp"`
	OldValues  json.RawMessage `gorm:"type:text" json:"oldValues,omitempty"`
	NewValues  json.RawMessage `gorm:"type:text" json:"newValues,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// TableName sets the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook to set default values
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	l.CreatedAt = time.Now().UTC()
	return nil
}

// Validate performs validation checks matching the database constraints
func (l *AuditLog) Validate() error {
	switch l.Action {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
	default:
		return fmt.Errorf("invalid action: %s (must be %s, %s or %s)",
			l.Action, AuditActionCreate, AuditActionUpdate, AuditActionDelete)
	}
	if l.EntityType == "" {
		return fmt.Errorf("entityType is required")
	}
	if l.EntityID == "" {
		return fmt.Errorf("entityId is required")
	}
	if l.ActorID == "" {
		return fmt.Errorf("actorId is required")
	}
	return nil
}
