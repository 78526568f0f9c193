package services

import (
	"context"
	"sync"
	"time"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/gorm"
)

// BackupService produces full JSON exports and dashboard statistics
type BackupService struct {
	db *gorm.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{db: db}
}

// Export is a point-in-time JSON dump of every tracked table. Password hashes
// and session tokens are excluded.
type Export struct {
	ExportedAt   time.Time                    `json:"exportedAt"`
	Members      []models.MemberResponse      `json:"members"`
	Donations    []models.Donation            `json:"donations"`
	Expenses     []models.Expense             `json:"expenses"`
	Activities   []models.Activity            `json:"activities"`
	Participants []models.ActivityParticipant `json:"activityParticipants"`
	Links        []models.Link                `json:"links"`
	Workshops    []models.WorkshopResource    `json:"workshopResources"`
	AuditLogs    []models.AuditLog            `json:"auditLogs"`
}

// Export dumps all tables into one document
func (s *BackupService) Export(ctx context.Context) (*Export, error) {
	export := &Export{ExportedAt: time.Now().UTC()}

	var members []models.Member
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to export members", err)
	}
	export.Members = make([]models.MemberResponse, len(members))
	for i := range members {
		export.Members[i] = *models.NewMemberResponse(&members[i])
	}

	steps := []struct {
		name  string
		order string
		dest  interface{}
	}{
		{"donations", "created_at ASC", &export.Donations},
		{"expenses", "created_at ASC", &export.Expenses},
		{"activities", "created_at ASC", &export.Activities},
		// participant rows only carry joined_at
		{"activity participants", "joined_at ASC", &export.Participants},
		{"links", "created_at ASC", &export.Links},
		{"workshop resources", "created_at ASC", &export.Workshops},
		{"audit logs", "created_at ASC", &export.AuditLogs},
	}
	for _, step := range steps {
		if err := s.db.WithContext(ctx).Order(step.order).Find(step.dest).Error; err != nil {
			return nil, apierrors.InternalErrorWithCause("failed to export "+step.name, err)
		}
	}

	return export, nil
}

// Stats holds dashboard counts and donation/expense totals
type Stats struct {
	Members        int64   `json:"members"`
	PendingMembers int64   `json:"pendingMembers"`
	Donations      int64   `json:"donations"`
	DonationTotal  float64 `json:"donationTotal"`
	Expenses       int64   `json:"expenses"`
	ExpenseTotal   float64 `json:"expenseTotal"`
	Activities     int64   `json:"activities"`
}

// Stats fans the independent count queries out concurrently and merges the
// results. The sub-queries have no ordering guarantee among them; the first
// error wins.
func (s *BackupService) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		return s.db.WithContext(ctx).Model(&models.Member{}).Count(&stats.Members).Error
	})
	run(func() error {
		return s.db.WithContext(ctx).Model(&models.Member{}).
			Where("account_status = ?", models.AccountStatusPending).
			Count(&stats.PendingMembers).Error
	})
	run(func() error {
		return s.db.WithContext(ctx).Model(&models.Donation{}).Count(&stats.Donations).Error
	})
	run(func() error {
		var total *float64
		err := s.db.WithContext(ctx).Model(&models.Donation{}).
			Select("SUM(amount)").Scan(&total).Error
		if err == nil && total != nil {
			stats.DonationTotal = *total
		}
		return err
	})
	run(func() error {
		return s.db.WithContext(ctx).Model(&models.Expense{}).Count(&stats.Expenses).Error
	})
	run(func() error {
		var total *float64
		err := s.db.WithContext(ctx).Model(&models.Expense{}).
			Select("SUM(amount)").Scan(&total).Error
		if err == nil && total != nil {
			stats.ExpenseTotal = *total
		}
		return err
	})
	run(func() error {
		return s.db.WithContext(ctx).Model(&models.Activity{}).Count(&stats.Activities).Error
	})

	wg.Wait()
	if firstErr != nil {
		return nil, apierrors.InternalErrorWithCause("failed to collect stats", firstErr)
	}
	return stats, nil
}

// TableCounts returns per-table row counts via the raw SQL connection, used by
// the health surface to sanity-check the schema.
func (s *BackupService) TableCounts(ctx context.Context, tables []string) (map[string]int, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to get sql.DB", err)
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		// Table names come from the fixed model list, never from user input
		if err := sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, apierrors.InternalErrorWithCause("failed to count "+table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
