// Package services contains the business logic for the v1 API. Each service
// wraps a GORM handle and returns pkg/errors values that handlers map to HTTP
// status codes.
package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

var auditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_portal_audit_entries_total",
		Help: "Audit log entries recorded by action",
	},
	[]string{"action"},
)

// AuditService appends and queries immutable audit log entries
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service instance
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends one audit entry for a successful mutation. Recording is a
// secondary concern: failures are logged and swallowed so they never abort
// the mutation that triggered them.
func (s *AuditService) Record(ctx context.Context, entityType, entityID, action, actorID string, before, after interface{}) {
	entry := &models.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
	}

	if before != nil {
		if data, err := json.Marshal(before); err == nil {
			entry.OldValues = data
		} else {
			slog.Warn("failed to marshal audit before-snapshot", "entityType", entityType, "entityId", entityID, "error", err)
		}
	}
	if after != nil {
		if data, err := json.Marshal(after); err == nil {
			entry.NewValues = data
		} else {
			slog.Warn("failed to marshal audit after-snapshot", "entityType", entityType, "entityId", entityID, "error", err)
		}
	}

	if err := entry.Validate(); err != nil {
		slog.Error("invalid audit entry dropped", "entityType", entityType, "entityId", entityID, "action", action, "error", err)
		return
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		slog.Error("failed to record audit entry", "entityType", entityType, "entityId", entityID, "action", action, "error", err)
		return
	}
	auditEntriesTotal.WithLabelValues(action).Inc()
}

// GetLogsForEntity returns all entries for one entity, newest first
func (s *AuditService) GetLogsForEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// GetRecentLogs returns a page of entries across all entities, filtered by any
// combination of the optional filter fields, ordered by time descending, plus
// the total count for pagination.
func (s *AuditService) GetRecentLogs(ctx context.Context, filter models.AuditLogFilter) (*models.AuditLogPage, error) {
	query := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(entity_type) LIKE ? OR LOWER(entity_id) LIKE ? OR LOWER(actor_id) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var logs []models.AuditLog
	if err := query.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, err
	}

	return &models.AuditLogPage{Items: logs, Total: total}, nil
}
