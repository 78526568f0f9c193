package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecord(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewAuditService(db)
	ctx := context.Background()

	t.Run("records snapshots for a mutation", func(t *testing.T) {
		before := map[string]string{"amount": "100"}
		after := map[string]string{"amount": "250"}
		svc.Record(ctx, "Donation", "don_1", models.AuditActionUpdate, "mem_actor", before, after)

		var entry models.AuditLog
		require.NoError(t, db.First(&entry, "entity_id = ?", "don_1").Error)
		assert.Equal(t, "Donation", entry.EntityType)
		assert.Equal(t, models.AuditActionUpdate, entry.Action)
		assert.Equal(t, "mem_actor", entry.ActorID)
		assert.False(t, entry.Timestamp.IsZero())

		var old map[string]string
		require.NoError(t, json.Unmarshal(entry.OldValues, &old))
		assert.Equal(t, "100", old["amount"])
		var updated map[string]string
		require.NoError(t, json.Unmarshal(entry.NewValues, &updated))
		assert.Equal(t, "250", updated["amount"])
	})

	t.Run("create entries carry no before-snapshot", func(t *testing.T) {
		svc.Record(ctx, "Expense", "exp_1", models.AuditActionCreate, "mem_actor", nil, map[string]string{"amount": "42"})

		var entry models.AuditLog
		require.NoError(t, db.First(&entry, "entity_id = ?", "exp_1").Error)
		assert.Empty(t, entry.OldValues)
		assert.NotEmpty(t, entry.NewValues)
	})

	t.Run("invalid entries are dropped silently", func(t *testing.T) {
		svc.Record(ctx, "", "", "bogus-action", "", nil, nil)

		var count int64
		db.Model(&models.AuditLog{}).Where("action = ?", "bogus-action").Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestGetLogsForEntity(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewAuditService(db)
	ctx := context.Background()

	svc.Record(ctx, "Donation", "don_a", models.AuditActionCreate, "mem_1", nil, map[string]int{"v": 1})
	svc.Record(ctx, "Donation", "don_a", models.AuditActionUpdate, "mem_1", map[string]int{"v": 1}, map[string]int{"v": 2})
	svc.Record(ctx, "Donation", "don_b", models.AuditActionCreate, "mem_1", nil, map[string]int{"v": 1})
	svc.Record(ctx, "Expense", "don_a", models.AuditActionCreate, "mem_1", nil, map[string]int{"v": 1})

	logs, err := svc.GetLogsForEntity(ctx, "Donation", "don_a")
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first
	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i-1].Timestamp.Before(logs[i].Timestamp))
	}
	for _, entry := range logs {
		assert.Equal(t, "Donation", entry.EntityType)
		assert.Equal(t, "don_a", entry.EntityID)
	}
}

func TestGetRecentLogs(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	svc := NewAuditService(db)
	ctx := context.Background()

	svc.Record(ctx, "Donation", "don_a", models.AuditActionCreate, "mem_1", nil, map[string]int{"v": 1})
	svc.Record(ctx, "Donation", "don_a", models.AuditActionDelete, "mem_2", map[string]int{"v": 1}, nil)
	svc.Record(ctx, "Member", "mem_x", models.AuditActionUpdate, "mem_1", nil, map[string]int{"v": 1})

	t.Run("unfiltered returns everything with total", func(t *testing.T) {
		page, err := svc.GetRecentLogs(ctx, models.AuditLogFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 3)
	})

	t.Run("filters by entity type and id", func(t *testing.T) {
		page, err := svc.GetRecentLogs(ctx, models.AuditLogFilter{EntityType: "Donation", EntityID: "don_a"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("filters by action", func(t *testing.T) {
		page, err := svc.GetRecentLogs(ctx, models.AuditLogFilter{Action: models.AuditActionDelete})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "mem_2", page.Items[0].ActorID)
	})

	t.Run("search matches actor id case-insensitively", func(t *testing.T) {
		page, err := svc.GetRecentLogs(ctx, models.AuditLogFilter{Search: "MEM_2"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "mem_2", page.Items[0].ActorID)
	})

	t.Run("pagination respects limit and offset", func(t *testing.T) {
		page, err := svc.GetRecentLogs(ctx, models.AuditLogFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 2)

		rest, err := svc.GetRecentLogs(ctx, models.AuditLogFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, rest.Items, 1)
	})
}
