package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seva-trust/portal-backend/v1/middleware"
	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/seva-trust/portal-backend/v1/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// testAPI wires the full middleware chain around the v1 routes the same way
// main does, minus CORS and metrics.
type testAPI struct {
	handler http.Handler
	db      *gorm.DB
	mailer  *services.RecordingMailer
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := services.SetupSQLiteTestDB(t)
	mailer := &services.RecordingMailer{}

	v1 := NewV1Handler(db, mailer)
	mux := http.NewServeMux()
	v1.SetupV1Routes(mux)

	auth := middleware.NewSessionAuthMiddleware(v1.SessionService())
	authz := middleware.NewAuthorizationMiddleware()

	return &testAPI{
		handler: auth.Authenticate(authz.Authorize(mux)),
		db:      db,
		mailer:  mailer,
	}
}

// seedMember inserts an active member directly, optionally with a role
func (a *testAPI) seedMember(t *testing.T, email string, role *models.TrusteeRole) *models.Member {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	member := &models.Member{
		Email:         email,
		PasswordHash:  string(hash),
		Name:          "Seeded Member",
		AccountStatus: models.AccountStatusActive,
		TrusteeRole:   role,
	}
	require.NoError(t, a.db.Create(member).Error)
	return member
}

// login performs a real login and returns the session cookie
func (a *testAPI) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": "secret123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == models.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

// do sends a JSON request through the full chain
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func rolePtr(r models.TrusteeRole) *models.TrusteeRole { return &r }
