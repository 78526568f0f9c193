package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TrusteeRole represents a named organizational position within the trust
type TrusteeRole string

const (
	RolePresident     TrusteeRole = "President"
	RoleVicePresident TrusteeRole = "Vice President"
	RoleSecretary     TrusteeRole = "Secretary"
	RoleTreasurer     TrusteeRole = "Treasurer"
	RoleTrustee       TrusteeRole = "Trustee"
)

// Permission represents a specific allowed action
type Permission string

const (
	// Member permissions
	PermissionReadMembers    Permission = "member:read"
	PermissionManageMembers  Permission = "member:manage"
	PermissionApproveMembers Permission = "member:approve"

	// Trustee role administration
	PermissionManageTrustees Permission = "trustee:manage"

	// Finance permissions
	PermissionManageDonations Permission = "donation:manage"
	PermissionManageExpenses  Permission = "expense:manage"

	// Activity and resource permissions
	PermissionManageActivities Permission = "activity:manage"
	PermissionManageLinks      Permission = "link:manage"
	PermissionManageWorkshops  Permission = "workshop:manage"

	// Audit and backup
	PermissionReadAuditLogs Permission = "audit:read"
	PermissionExportBackup  Permission = "backup:export"
)

// RolePermissions defines the base permission set conferred by each trustee role
var RolePermissions = map[TrusteeRole][]Permission{
	RolePresident: {
		PermissionReadMembers, PermissionManageMembers, PermissionApproveMembers,
		PermissionManageTrustees, PermissionManageDonations, PermissionManageExpenses,
		PermissionManageActivities, PermissionManageLinks, PermissionManageWorkshops,
		PermissionReadAuditLogs, PermissionExportBackup,
	},
	RoleVicePresident: {
		PermissionReadMembers, PermissionManageMembers, PermissionApproveMembers,
		PermissionManageDonations, PermissionManageExpenses,
		PermissionManageActivities, PermissionManageLinks, PermissionManageWorkshops,
		PermissionReadAuditLogs,
	},
	RoleSecretary: {
		PermissionReadMembers, PermissionManageMembers, PermissionApproveMembers,
		PermissionManageActivities, PermissionManageLinks, PermissionManageWorkshops,
		PermissionReadAuditLogs, PermissionExportBackup,
	},
	RoleTreasurer: {
		PermissionReadMembers,
		PermissionManageDonations, PermissionManageExpenses,
		PermissionReadAuditLogs, PermissionExportBackup,
	},
	RoleTrustee: {
		PermissionReadMembers,
		PermissionManageActivities, PermissionManageLinks,
	},
}

// rolePrecedence defines the fixed display and escalation ordering of roles.
// Lower values sort first.
var rolePrecedence = map[TrusteeRole]int{
	RolePresident:     0,
	RoleVicePresident: 1,
	RoleSecretary:     2,
	RoleTreasurer:     3,
	RoleTrustee:       4,
}

// Precedence returns the ordering rank of a role. Unknown roles sort last.
func (r TrusteeRole) Precedence() int {
	if rank, ok := rolePrecedence[r]; ok {
		return rank
	}
	return len(rolePrecedence)
}

// IsValid checks if the role is a known trustee role
func (r TrusteeRole) IsValid() bool {
	_, exists := RolePermissions[r]
	return exists
}

// String returns the string representation of the role
func (r TrusteeRole) String() string {
	return string(r)
}

// PermissionOverrides is a sparse per-member map of permission name to an
// explicit grant (true) or revocation (false). Stored as a JSON column.
type PermissionOverrides map[Permission]bool

// Scan implements the sql.Scanner interface for PermissionOverrides
func (po *PermissionOverrides) Scan(value interface{}) error {
	if value == nil {
		*po = PermissionOverrides{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionOverrides", value)
	}

	if len(bytes) == 0 {
		*po = PermissionOverrides{}
		return nil
	}
	return json.Unmarshal(bytes, po)
}

// Value implements the driver.Valuer interface for PermissionOverrides
func (po PermissionOverrides) Value() (driver.Value, error) {
	if po == nil {
		return "{}", nil
	}
	data, err := json.Marshal(po)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Validate rejects overrides that reference unknown permission names
func (po PermissionOverrides) Validate() error {
	for p := range po {
		if !isKnownPermission(p) {
			return fmt.Errorf("unknown permission: %s", p)
		}
	}
	return nil
}

var allPermissions = []Permission{
	PermissionReadMembers, PermissionManageMembers, PermissionApproveMembers,
	PermissionManageTrustees, PermissionManageDonations, PermissionManageExpenses,
	PermissionManageActivities, PermissionManageLinks, PermissionManageWorkshops,
	PermissionReadAuditLogs, PermissionExportBackup,
}

func isKnownPermission(p Permission) bool {
	for _, known := range allPermissions {
		if known == p {
			return true
		}
	}
	return false
}
