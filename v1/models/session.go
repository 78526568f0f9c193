package models

import "time"

// SessionCookieName is the name of the authentication cookie
const SessionCookieName = "trust_session"

// SessionDuration is how long an issued session remains valid
const SessionDuration = 2 * time.Hour

// Session maps an opaque bearer token to a member for a bounded time window.
// A member may hold multiple concurrent sessions.
type Session struct {
	Token     string    `gorm:"primaryKey;type:varchar(64)" json:"-"`
	MemberID  string    `gorm:"type:varchar(50);not null;index" json:"memberId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is past its expiry
func (s *Session) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}
