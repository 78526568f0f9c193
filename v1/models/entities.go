package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation records a contribution received by the trust
type Donation struct {
	DonationID string    `gorm:"primaryKey;type:varchar(50)" json:"donationId"`
	DonorName  string    `gorm:"type:varchar(255);not null" json:"donorName"`
	DonorEmail string    `gorm:"type:varchar(255)" json:"donorEmail"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Currency   string    `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Category   string    `gorm:"type:varchar(100);index" json:"category"`
	Date       time.Time `json:"date"`
	Notes      string    `gorm:"type:text" json:"notes"`
	BaseModel
}

func (Donation) TableName() string { return "donations" }

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.DonationID == "" {
		d.DonationID = "don_" + uuid.New().String()
	}
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}
	return d.BaseModel.BeforeCreate(tx)
}

// Expense records money spent by the trust
type Expense struct {
	ExpenseID string    `gorm:"primaryKey;type:varchar(50)" json:"expenseId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Category  string    `gorm:"type:varchar(100);index" json:"category"`
	Date      time.Time `json:"date"`
	PaidBy    string    `gorm:"type:varchar(50)" json:"paidBy"`
	Notes     string    `gorm:"type:text" json:"notes"`
	BaseModel
}

func (Expense) TableName() string { return "expenses" }

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ExpenseID == "" {
		e.ExpenseID = "exp_" + uuid.New().String()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return e.BaseModel.BeforeCreate(tx)
}

// Activity statuses
const (
	ActivityStatusPlanned   = "planned"
	ActivityStatusCompleted = "completed"
	ActivityStatusCancelled = "cancelled"
)

// Activity represents a scheduled event or workshop run by the trust
type Activity struct {
	ActivityID  string     `gorm:"primaryKey;type:varchar(50)" json:"activityId"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"type:varchar(100);index" json:"category"`
	Location    string     `gorm:"type:varchar(255)" json:"location"`
	StartTime   time.Time  `gorm:"index" json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Status      string     `gorm:"type:varchar(20);default:'planned'" json:"status"`
	BaseModel
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ActivityID == "" {
		a.ActivityID = "act_" + uuid.New().String()
	}
	if a.Status == "" {
		a.Status = ActivityStatusPlanned
	}
	return a.BaseModel.BeforeCreate(tx)
}

// ActivityParticipant joins a member to an activity
type ActivityParticipant struct {
	ActivityID string    `gorm:"primaryKey;type:varchar(50)" json:"activityId"`
	MemberID   string    `gorm:"primaryKey;type:varchar(50)" json:"memberId"`
	JoinedAt   time.Time `json:"joinedAt"`
}

func (ActivityParticipant) TableName() string { return "activity_participants" }

func (p *ActivityParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	return nil
}

// Link is a categorized external link shared on the portal
type Link struct {
	LinkID      string `gorm:"primaryKey;type:varchar(50)" json:"linkId"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	URL         string `gorm:"type:varchar(2048);not null" json:"url"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	BaseModel
}

func (Link) TableName() string { return "links" }

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.LinkID == "" {
		l.LinkID = "lnk_" + uuid.New().String()
	}
	return l.BaseModel.BeforeCreate(tx)
}

// WorkshopResource is a teaching resource attached to the trust's workshops
type WorkshopResource struct {
	ResourceID  string `gorm:"primaryKey;type:varchar(50)" json:"resourceId"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Type        string `gorm:"type:varchar(50)" json:"type"`
	URL         string `gorm:"type:varchar(2048)" json:"url"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	BaseModel
}

func (WorkshopResource) TableName() string { return "workshop_resources" }

func (w *WorkshopResource) BeforeCreate(tx *gorm.DB) error {
	if w.ResourceID == "" {
		w.ResourceID = "wrk_" + uuid.New().String()
	}
	return w.BaseModel.BeforeCreate(tx)
}
