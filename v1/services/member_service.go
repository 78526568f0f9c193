package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apierrors "github.com/seva-trust/portal-backend/pkg/errors"
	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordResetTokenTTL = 30 * time.Minute

// MemberService handles member onboarding, approval, profile and role changes
type MemberService struct {
	db       *gorm.DB
	audit    *AuditService
	sessions *SessionService
	mailer   Mailer
	jwtKey   []byte
	baseURL  string
}

// NewMemberService creates a new member service
func NewMemberService(db *gorm.DB, audit *AuditService, sessions *SessionService, mailer Mailer) *MemberService {
	return &MemberService{
		db:       db,
		audit:    audit,
		sessions: sessions,
		mailer:   mailer,
		jwtKey:   []byte(utils.GetEnvOrDefault("RESET_TOKEN_SECRET", "dev-insecure-secret")),
		baseURL:  utils.GetEnvOrDefault("APP_BASE_URL", "http://localhost:3000"),
	}
}

// Register creates a new member in pending status
func (s *MemberService) Register(ctx context.Context, req *models.RegisterMemberRequest) (*models.MemberResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apierrors.ValidationError("name, email and password are required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Member
	err := s.db.WithContext(ctx).First(&existing, "email = ?", email).Error
	if err == nil {
		return nil, apierrors.ConflictError("A member with this email already exists")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apierrors.InternalErrorWithCause("failed to check existing member", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to hash password", err)
	}

	member := models.Member{
		Email:         email,
		PasswordHash:  string(hash),
		Name:          req.Name,
		Phone:         req.Phone,
		AccountStatus: models.AccountStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to create member", err)
	}

	s.audit.Record(ctx, "Member", member.MemberID, models.AuditActionCreate, member.MemberID, nil, models.NewMemberResponse(&member))
	slog.Info("member registered", "memberId", member.MemberID)
	return models.NewMemberResponse(&member), nil
}

// Approve transitions a pending member to active
func (s *MemberService) Approve(ctx context.Context, memberID, actorID string) (*models.MemberResponse, error) {
	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	before := models.NewMemberResponse(member)
	member.AccountStatus = models.AccountStatusActive
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to approve member", err)
	}

	s.audit.Record(ctx, "Member", member.MemberID, models.AuditActionUpdate, actorID, before, models.NewMemberResponse(member))
	return models.NewMemberResponse(member), nil
}

// Get retrieves a member by ID
func (s *MemberService) Get(ctx context.Context, memberID string) (*models.MemberResponse, error) {
	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return models.NewMemberResponse(member), nil
}

// List retrieves members with optional search and filters. Results are ordered
// by trustee role precedence in application code after fetching, with unknown
// or absent roles last, then by name.
func (s *MemberService) List(ctx context.Context, search string, status models.AccountStatus, role models.TrusteeRole) ([]models.MemberResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Member{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if status != "" {
		query = query.Where("account_status = ?", status)
	}
	if role != "" {
		query = query.Where("trustee_role = ?", role)
	}

	var members []models.Member
	if err := query.Order("name ASC").Find(&members).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to list members", err)
	}

	sortMembersByRolePrecedence(members)

	responses := make([]models.MemberResponse, len(members))
	for i := range members {
		responses[i] = *models.NewMemberResponse(&members[i])
	}
	return responses, nil
}

// sortMembersByRolePrecedence is a stable sort on the fixed role precedence
// table. Members without a role, or with an unknown role, sort last.
func sortMembersByRolePrecedence(members []models.Member) {
	rank := func(m *models.Member) int {
		if m.TrusteeRole == nil {
			return len(models.RolePermissions) + 1
		}
		return m.TrusteeRole.Precedence()
	}
	// Insertion sort keeps the incoming name ordering within equal ranks
	for i := 1; i < len(members); i++ {
		for j := i; j > 0 && rank(&members[j-1]) > rank(&members[j]); j-- {
			members[j-1], members[j] = members[j], members[j-1]
		}
	}
}

// Update applies a full-field overwrite of a member's profile
func (s *MemberService) Update(ctx context.Context, memberID string, req *models.UpdateMemberRequest, actorID string) (*models.MemberResponse, error) {
	if req.Name == "" {
		return nil, apierrors.ValidationError("name is required")
	}

	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	before := models.NewMemberResponse(member)
	member.Name = req.Name
	member.Phone = req.Phone
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to update member", err)
	}

	s.audit.Record(ctx, "Member", member.MemberID, models.AuditActionUpdate, actorID, before, models.NewMemberResponse(member))
	return models.NewMemberResponse(member), nil
}

// Delete removes a member and revokes their sessions
func (s *MemberService) Delete(ctx context.Context, memberID, actorID string) error {
	member, err := s.find(ctx, memberID)
	if err != nil {
		return err
	}

	before := models.NewMemberResponse(member)
	if err := s.db.WithContext(ctx).Delete(member).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to delete member", err)
	}
	if err := s.sessions.RemoveAllSessionsForMember(ctx, memberID); err != nil {
		slog.Warn("failed to revoke sessions of deleted member", "memberId", memberID, "error", err)
	}

	s.audit.Record(ctx, "Member", memberID, models.AuditActionDelete, actorID, before, nil)
	return nil
}

// AssignRole sets or replaces a member's trustee role. A member holds at most
// one role at a time.
func (s *MemberService) AssignRole(ctx context.Context, memberID string, req *models.AssignRoleRequest, actorID string) (*models.MemberResponse, error) {
	if !req.Role.IsValid() {
		return nil, apierrors.ValidationError(fmt.Sprintf("unknown trustee role: %s", req.Role))
	}

	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	before := models.NewMemberResponse(member)
	role := req.Role
	member.TrusteeRole = &role
	member.RoleStartDate = req.RoleStartDate
	if member.RoleStartDate == nil {
		now := time.Now().UTC()
		member.RoleStartDate = &now
	}
	member.RoleEndDate = req.RoleEndDate
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to assign role", err)
	}

	s.audit.Record(ctx, "Member", member.MemberID, models.AuditActionUpdate, actorID, before, models.NewMemberResponse(member))
	return models.NewMemberResponse(member), nil
}

// ClearRole removes a member's trustee role and role dates
func (s *MemberService) ClearRole(ctx context.Context, memberID, actorID string) (*models.MemberResponse, error) {
	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	before := models.NewMemberResponse(member)
	member.TrusteeRole = nil
	member.RoleStartDate = nil
	member.RoleEndDate = nil
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to clear role", err)
	}

	s.audit.Record(ctx, "Member", member.MemberID, models.AuditActionUpdate, actorID, before, models.NewMemberResponse(member))
	return models.NewMemberResponse(member), nil
}

// SetOverrides replaces a member's explicit permission overrides. Overrides
// are validated against the closed permission enumeration at this boundary.
func (s *MemberService) SetOverrides(ctx context.Context, memberID string, overrides models.PermissionOverrides, actorID string) (*models.MemberResponse, error) {
	if err := overrides.Validate(); err != nil {
		return nil, apierrors.ValidationError(err.Error())
	}

	member, err := s.find(ctx, memberID)
	if err != nil {
		return nil, err
	}

	before := models.NewMemberResponse(member)
	if overrides == nil {
		overrides = models.PermissionOverrides{}
	}
	member.PermissionOverrides = overrides
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, apierrors.InternalErrorWithCause("failed to set permission overrides", err)
	}

	s.audit.Record(ctx, "Member", member.MemberID, models.AuditActionUpdate, actorID, before, models.NewMemberResponse(member))
	return models.NewMemberResponse(member), nil
}

// RequestPasswordReset issues a time-limited signed token and emails a reset
// link. To avoid account enumeration it succeeds silently for unknown emails.
func (s *MemberService) RequestPasswordReset(ctx context.Context, email string) error {
	var member models.Member
	err := s.db.WithContext(ctx).First(&member, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return apierrors.InternalErrorWithCause("failed to look up member", err)
	}

	token, err := s.issueResetToken(member.MemberID)
	if err != nil {
		return apierrors.InternalErrorWithCause("failed to issue reset token", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. "+
		"The link below is valid for 30 minutes:\n\n%s\n\nIf you did not request this, ignore this mail.\n", member.Name, link)
	if err := s.mailer.Send(ctx, member.Email, "Password reset", body); err != nil {
		return apierrors.InternalErrorWithCause("failed to send reset mail", err)
	}
	return nil
}

// ConfirmPasswordReset verifies the token, sets the new password and revokes
// every existing session of the member.
func (s *MemberService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apierrors.ValidationError("newPassword is required")
	}

	memberID, err := s.verifyResetToken(token)
	if err != nil {
		return apierrors.UnauthorizedError("Invalid or expired reset token")
	}

	member, err := s.find(ctx, memberID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apierrors.InternalErrorWithCause("failed to hash password", err)
	}
	member.PasswordHash = string(hash)
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return apierrors.InternalErrorWithCause("failed to update password", err)
	}

	if err := s.sessions.RemoveAllSessionsForMember(ctx, member.MemberID); err != nil {
		slog.Warn("failed to revoke sessions after password reset", "memberId", member.MemberID, "error", err)
	}

	slog.Info("password reset completed", "memberId", member.MemberID)
	return nil
}

func (s *MemberService) issueResetToken(memberID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   memberID,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(passwordResetTokenTTL)),
		Issuer:    "trust-portal",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}

func (s *MemberService) verifyResetToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	}, jwt.WithIssuer("trust-portal"), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("invalid reset token claims")
	}
	return claims.Subject, nil
}

func (s *MemberService) find(ctx context.Context, memberID string) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).First(&member, "member_id = ?", memberID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NotFoundError("Member")
		}
		return nil, apierrors.InternalErrorWithCause("failed to fetch member", err)
	}
	return &member, nil
}
