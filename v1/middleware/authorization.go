package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
)

// EndpointPermission defines the required permission for a method and path
// prefix. Longer prefixes match first.
type EndpointPermission struct {
	Method     string
	PathPrefix string
	Permission models.Permission
}

// EndpointPermissions maps mutating and privileged endpoints to required
// permissions. Read endpoints not listed here are open to any authenticated
// member.
var EndpointPermissions = []EndpointPermission{
	// Member administration
	{http.MethodGet, "/api/v1/members", models.PermissionReadMembers},
	{http.MethodPost, "/api/v1/members", models.PermissionManageMembers},
	{http.MethodPut, "/api/v1/members", models.PermissionManageMembers},
	{http.MethodDelete, "/api/v1/members", models.PermissionManageMembers},

	// Trustee role and override administration (more specific, checked first)
	{http.MethodPut, "/api/v1/members/*/role", models.PermissionManageTrustees},
	{http.MethodDelete, "/api/v1/members/*/role", models.PermissionManageTrustees},
	{http.MethodPut, "/api/v1/members/*/permissions", models.PermissionManageTrustees},
	{http.MethodPost, "/api/v1/members/*/approve", models.PermissionApproveMembers},

	// Finance
	{http.MethodPost, "/api/v1/donations", models.PermissionManageDonations},
	{http.MethodPut, "/api/v1/donations", models.PermissionManageDonations},
	{http.MethodDelete, "/api/v1/donations", models.PermissionManageDonations},
	{http.MethodPost, "/api/v1/expenses", models.PermissionManageExpenses},
	{http.MethodPut, "/api/v1/expenses", models.PermissionManageExpenses},
	{http.MethodDelete, "/api/v1/expenses", models.PermissionManageExpenses},

	// Activities, links, workshop resources
	{http.MethodPost, "/api/v1/activities", models.PermissionManageActivities},
	{http.MethodPut, "/api/v1/activities", models.PermissionManageActivities},
	{http.MethodDelete, "/api/v1/activities", models.PermissionManageActivities},
	{http.MethodPost, "/api/v1/links", models.PermissionManageLinks},
	{http.MethodPut, "/api/v1/links", models.PermissionManageLinks},
	{http.MethodDelete, "/api/v1/links", models.PermissionManageLinks},
	{http.MethodPost, "/api/v1/workshop-resources", models.PermissionManageWorkshops},
	{http.MethodPut, "/api/v1/workshop-resources", models.PermissionManageWorkshops},
	{http.MethodDelete, "/api/v1/workshop-resources", models.PermissionManageWorkshops},

	// Audit and backup
	{http.MethodGet, "/api/v1/audit-logs", models.PermissionReadAuditLogs},
	{http.MethodGet, "/api/v1/backup", models.PermissionExportBackup},
}

// AuthorizationMiddleware gates requests on the member's resolved permissions
type AuthorizationMiddleware struct{}

// NewAuthorizationMiddleware creates a new authorization middleware
func NewAuthorizationMiddleware() *AuthorizationMiddleware {
	return &AuthorizationMiddleware{}
}

// Authorize checks the endpoint permission table against the authenticated
// member. Endpoints without an entry pass through for any authenticated user.
func (a *AuthorizationMiddleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		required, found := FindEndpointPermission(r.Method, r.URL.Path)
		if !found {
			next.ServeHTTP(w, r)
			return
		}

		member := MemberFromRequest(r)
		if member == nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !member.HasPermission(required) {
			slog.Warn("access denied: insufficient permissions",
				"memberId", member.MemberID,
				"required", required,
				"path", r.URL.Path,
				"method", r.Method)
			utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindEndpointPermission locates the permission entry matching a request.
// Wildcard segments in a pattern ("*") match exactly one path segment; entries
// with more segments are checked before shorter prefixes.
func FindEndpointPermission(method, path string) (models.Permission, bool) {
	path = strings.TrimSuffix(path, "/")

	var (
		best      models.Permission
		bestDepth = -1
		found     bool
	)
	for _, ep := range EndpointPermissions {
		if ep.Method != method {
			continue
		}
		depth := strings.Count(ep.PathPrefix, "/")
		if matchesPattern(ep.PathPrefix, path) && depth > bestDepth {
			best = ep.Permission
			bestDepth = depth
			found = true
		}
	}
	return best, found
}

// matchesPattern matches a pattern against a path. The pattern is a prefix:
// the path may extend past it by additional segments unless the pattern ends
// in a wildcard tail.
func matchesPattern(pattern, path string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(pathParts) < len(patternParts) {
		return false
	}
	for i, pp := range patternParts {
		if pp == "*" {
			continue
		}
		if pp != pathParts[i] {
			return false
		}
	}
	return true
}
