package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountStatus is the lifecycle flag gating login eligibility
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// Member represents a member of the trust
type Member struct {
	MemberID            string              `gorm:"primaryKey;type:varchar(50)" json:"memberId"`
	Email               string              `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string              `gorm:"type:varchar(255);not null" json:"-"`
	Name                string              `gorm:"type:varchar(255);not null" json:"name"`
	Phone               string              `gorm:"type:varchar(50)" json:"phone"`
	JoinDate            time.Time           `json:"joinDate"`
	AccountStatus       AccountStatus       `gorm:"type:varchar(20);not null;default:'pending';index" json:"accountStatus"`
	TrusteeRole         *TrusteeRole        `gorm:"type:varchar(50)" json:"trusteeRole,omitempty"`
	RoleStartDate       *time.Time          `json:"roleStartDate,omitempty"`
	RoleEndDate         *time.Time          `json:"roleEndDate,omitempty"`
	PermissionOverrides PermissionOverrides `gorm:"type:text" json:"permissionOverrides"`
	BaseModel
}

// TableName sets the table name for the Member model
func (Member) TableName() string {
	return "members"
}

// BeforeCreate GORM hook to assign an ID and defaults
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == "" {
		m.MemberID = "mem_" + uuid.New().String()
	}
	if m.AccountStatus == "" {
		m.AccountStatus = AccountStatusPending
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = time.Now().UTC()
	}
	if m.PermissionOverrides == nil {
		m.PermissionOverrides = PermissionOverrides{}
	}
	return m.BaseModel.BeforeCreate(tx)
}

// HasPermission resolves whether the member may perform the given action.
// Explicit overrides take precedence over the role's base permission set.
// A member without a trustee role has no base permissions.
func (m *Member) HasPermission(permission Permission) bool {
	if allowed, ok := m.PermissionOverrides[permission]; ok {
		return allowed
	}
	if m.TrusteeRole == nil {
		return false
	}
	for _, p := range RolePermissions[*m.TrusteeRole] {
		if p == permission {
			return true
		}
	}
	return false
}

// IsActive reports whether the member may log in
func (m *Member) IsActive() bool {
	return m.AccountStatus == AccountStatusActive
}
