package services

import (
	"context"
	"sync"
	"testing"

	"github.com/seva-trust/portal-backend/v1/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing and
// migrates all v1 models.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.Session{},
		&models.AuditLog{},
		&models.Donation{},
		&models.Expense{},
		&models.Activity{},
		&models.ActivityParticipant{},
		&models.Link{},
		&models.WorkshopResource{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// RecordingMailer captures sent mail for assertions
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []RecordedMail
}

// RecordedMail is one captured message
type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

// Send records the message and succeeds
func (m *RecordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, RecordedMail{To: to, Subject: subject, Body: body})
	return nil
}
