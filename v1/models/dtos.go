package models

import "time"

// RegisterMemberRequest is the payload for public member registration
type RegisterMemberRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the payload for member login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateMemberRequest is a full-overwrite update of a member's profile fields
type UpdateMemberRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AssignRoleRequest assigns or replaces a member's trustee role
type AssignRoleRequest struct {
	Role          TrusteeRole `json:"role"`
	RoleStartDate *time.Time  `json:"roleStartDate,omitempty"`
	RoleEndDate   *time.Time  `json:"roleEndDate,omitempty"`
}

// SetOverridesRequest replaces a member's explicit permission overrides
type SetOverridesRequest struct {
	Overrides PermissionOverrides `json:"overrides"`
}

// PasswordResetRequest asks for a reset link to be emailed
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm completes a password reset with the emailed token
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// MemberResponse is the public representation of a member
type MemberResponse struct {
	MemberID            string              `json:"memberId"`
	Email               string              `json:"email"`
	Name                string              `json:"name"`
	Phone               string              `json:"phone"`
	JoinDate            string              `json:"joinDate"`
	AccountStatus       AccountStatus       `json:"accountStatus"`
	TrusteeRole         *TrusteeRole        `json:"trusteeRole,omitempty"`
	RoleStartDate       *time.Time          `json:"roleStartDate,omitempty"`
	RoleEndDate         *time.Time          `json:"roleEndDate,omitempty"`
	PermissionOverrides PermissionOverrides `json:"permissionOverrides"`
	Permissions         []Permission        `json:"permissions"`
	CreatedAt           string              `json:"createdAt"`
	UpdatedAt           string              `json:"updatedAt"`
}

// NewMemberResponse builds a MemberResponse including the resolved permission set
func NewMemberResponse(m *Member) *MemberResponse {
	resolved := make([]Permission, 0)
	for _, p := range allPermissions {
		if m.HasPermission(p) {
			resolved = append(resolved, p)
		}
	}
	return &MemberResponse{
		MemberID:            m.MemberID,
		Email:               m.Email,
		Name:                m.Name,
		Phone:               m.Phone,
		JoinDate:            m.JoinDate.Format(time.RFC3339),
		AccountStatus:       m.AccountStatus,
		TrusteeRole:         m.TrusteeRole,
		RoleStartDate:       m.RoleStartDate,
		RoleEndDate:         m.RoleEndDate,
		PermissionOverrides: m.PermissionOverrides,
		Permissions:         resolved,
		CreatedAt:           m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           m.UpdatedAt.Format(time.RFC3339),
	}
}

// AuditLogFilter carries the optional filters for paged audit log queries
type AuditLogFilter struct {
	EntityType string
	EntityID   string
	Action     string
	Search     string
	Limit      int
	Offset     int
}

// AuditLogPage is one page of audit entries plus the total count for pagination
type AuditLogPage struct {
	Items []AuditLog `json:"items"`
	Total int64      `json:"total"`
}
