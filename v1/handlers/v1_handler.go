// Package handlers wires the v1 HTTP routes to their services.
package handlers

import (
	"net/http"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/services"
	"gorm.io/gorm"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	sessionService  *services.SessionService
	memberService   *services.MemberService
	auditService    *services.AuditService
	donationService *services.DonationService
	expenseService  *services.ExpenseService
	activityService *services.ActivityService
	linkService     *services.LinkService
	workshopService *services.WorkshopService
	backupService   *services.BackupService
}

// NewV1Handler creates a new V1 handler with all services wired
func NewV1Handler(db *gorm.DB, mailer services.Mailer) *V1Handler {
	auditService := services.NewAuditService(db)
	sessionService := services.NewSessionService(db)
	return &V1Handler{
		sessionService:  sessionService,
		memberService:   services.NewMemberService(db, auditService, sessionService, mailer),
		auditService:    auditService,
		donationService: services.NewDonationService(db, auditService),
		expenseService:  services.NewExpenseService(db, auditService),
		activityService: services.NewActivityService(db, auditService),
		linkService:     services.NewLinkService(db, auditService),
		workshopService: services.NewWorkshopService(db, auditService),
		backupService:   services.NewBackupService(db),
	}
}

// SessionService exposes the session service for middleware wiring
func (h *V1Handler) SessionService() *services.SessionService {
	return h.sessionService
}

// SetupV1Routes configures all V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	mux.Handle("/api/v1/auth/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAuth)))
	mux.Handle("/api/v1/members", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMembers)))
	mux.Handle("/api/v1/members/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMembers)))
	mux.Handle("/api/v1/donations", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleDonations)))
	mux.Handle("/api/v1/donations/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleDonations)))
	mux.Handle("/api/v1/expenses", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleExpenses)))
	mux.Handle("/api/v1/expenses/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleExpenses)))
	mux.Handle("/api/v1/activities", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleActivities)))
	mux.Handle("/api/v1/activities/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleActivities)))
	mux.Handle("/api/v1/links", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleLinks)))
	mux.Handle("/api/v1/links/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleLinks)))
	mux.Handle("/api/v1/workshop-resources", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleWorkshopResources)))
	mux.Handle("/api/v1/workshop-resources/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleWorkshopResources)))
	mux.Handle("/api/v1/audit-logs", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAuditLogs)))
	mux.Handle("/api/v1/audit-logs/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAuditLogs)))
	mux.Handle("/api/v1/backup", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleBackup)))
	mux.Handle("/api/v1/stats", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleStats)))
}
