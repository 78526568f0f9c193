package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/v1/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionService issues, validates and revokes session tokens
type SessionService struct {
	db *gorm.DB
}

// NewSessionService creates a new session service
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// generateToken returns an unguessable opaque token
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CreateSession generates a unique token and persists it with a 2 hour expiry
func (s *SessionService) CreateSession(ctx context.Context, memberID string) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create session", err)
	}

	session := &models.Session{
		Token:     token,
		MemberID:  memberID,
		ExpiresAt: time.Now().UTC().Add(models.SessionDuration),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to persist session", err)
	}
	return session, nil
}

// ValidateSession resolves a token to its non-expired owning member. Absent or
// expired tokens degrade to an unauthorized error rather than an internal one.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (*models.Member, error) {
	if token == "" {
		return nil, apierrors.UnauthorizedError("Authentication required")
	}

	var session models.Session
	err := s.db.WithContext(ctx).First(&session, "token = ?", token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.UnauthorizedError("Invalid session")
		}
		return nil, apierrors.InternalErrorWithCause("failed to look up session", err)
	}

	if session.Expired() {
		// Lazy cleanup of expired rows
		if err := s.db.WithContext(ctx).Delete(&session).Error; err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return nil, apierrors.UnauthorizedError("Session expired")
	}

	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, "member_id = ?", session.MemberID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.UnauthorizedError("Invalid session")
		}
		return nil, apierrors.InternalErrorWithCause("failed to load session member", err)
	}
	return &member, nil
}

// RemoveSession deletes the session row. Removing an already-absent token is
// not an error.
func (s *SessionService) RemoveSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to remove session", err)
	}
	return nil
}

// RemoveAllSessionsForMember revokes every session held by a member, used when
// a password is reset or an account is suspended.
func (s *SessionService) RemoveAllSessionsForMember(ctx context.Context, memberID string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "member_id = ?", memberID).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to remove member sessions", err)
	}
	return nil
}

// Login verifies credentials and issues a session for an active account
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Member, *models.Session, error) {
	var member models.Member
	err := s.db.WithContext(ctx).First(&member, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apierrors.UnauthorizedError("Invalid email or password")
		}
		return nil, nil, apierrors.InternalErrorWithCause("failed to look up member", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apierrors.UnauthorizedError("Invalid email or password")
	}

	switch member.AccountStatus {
	case models.AccountStatusActive:
	case models.AccountStatusPending:
		return nil, nil, apierrors.ForbiddenError("Your account is pending approval")
	default:
		return nil, nil, apierrors.ForbiddenError("Your account is not active")
	}

	session, err := s.CreateSession(ctx, member.MemberID)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("member logged in", "memberId", member.MemberID)
	return &member, session, nil
}
