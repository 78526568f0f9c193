package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/middleware"
	"github.com/seva-trust/portal-backend/v1/models"
)

// handleAuth dispatches /api/v1/auth/... routes
func (h *V1Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/auth")
	path = strings.Trim(path, "/")

	switch {
	case path == "register" && r.Method == http.MethodPost:
		h.register(w, r)
	case path == "login" && r.Method == http.MethodPost:
		h.login(w, r)
	case path == "logout" && r.Method == http.MethodPost:
		h.logout(w, r)
	case path == "me" && r.Method == http.MethodGet:
		h.currentMember(w, r)
	case path == "password-reset" && r.Method == http.MethodPost:
		h.requestPasswordReset(w, r)
	case path == "password-reset/confirm" && r.Method == http.MethodPost:
		h.confirmPasswordReset(w, r)
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
	}
}

func (h *V1Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterMemberRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.Register(r.Context(), &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, member)
}

func (h *V1Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	member, session, err := h.sessionService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	http.SetCookie(w, sessionCookie(session.Token, int(models.SessionDuration.Seconds())))
	utils.RespondWithJSON(w, http.StatusOK, models.NewMemberResponse(member))
}

// logout always succeeds, even when no session existed
func (h *V1Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(models.SessionCookieName); err == nil {
		if err := h.sessionService.RemoveSession(r.Context(), cookie.Value); err != nil {
			utils.RespondWithAPIError(w, err)
			return
		}
	}

	http.SetCookie(w, sessionCookie("", -1))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *V1Handler) currentMember(w http.ResponseWriter, r *http.Request) {
	member := middleware.MemberFromRequest(r)
	if member == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.NewMemberResponse(member))
}

func (h *V1Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil || req.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.memberService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "reset link sent if the account exists"})
}

func (h *V1Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirm
	if err := utils.ParseJSONRequest(r, &req); err != nil || req.Token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "token and newPassword are required")
		return
	}

	if err := h.memberService.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// sessionCookie builds the auth cookie. Secure is set in production so local
// development over plain HTTP keeps working.
func sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     models.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("APP_ENV") == "production",
	}
}
