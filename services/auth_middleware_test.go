package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

type guardFixture struct {
	app    *fiber.App
	dbSvc  *DatabaseService
	jwtSvc *JWTService
}

// newGuardFixture wires the real auth middleware into a minimal app
// with one protected and one admin route.
func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	dbSvc := newTestDatabaseService(t)
	jwtSvc := newTestJWTService()
	authSvc := &AuthService{dbSvc: dbSvc, jwtSvc: jwtSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: (&HttpService{}).errorHandler,
	})
	app.Get("/lessons", authSvc.RequiredAuth(), func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, c.Locals(shared.UserID))
	})
	app.Get("/admin/users", authSvc.RequiredAuth(), authSvc.RequireAdmin(), func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, "ok")
	})

	return &guardFixture{app: app, dbSvc: dbSvc, jwtSvc: jwtSvc}
}

// seedUser creates a user with a role, an active session and a signed
// access token for it.
func (f *guardFixture) seedUser(t *testing.T, role string) (token, sessionID string) {
	t.Helper()

	userID := uuid.NewString()
	user := &model.User{
		ID:       userID,
		Email:    userID + "@example.com",
		Username: "u-" + userID,
		Password: "irrelevant",
		IsActive: true,
	}
	if err := f.dbSvc.CreateUser(user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := f.dbSvc.SetUserRole(userID, role); err != nil {
		t.Fatalf("SetUserRole() error = %v", err)
	}

	sessionID = uuid.NewString()
	token, _, err := f.jwtSvc.GenerateAccessToken(userID, sessionID)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	session := &model.UserSession{
		ID:        sessionID,
		UserID:    userID,
		IsActive:  true,
		LastUsed:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := f.dbSvc.CreateSession(session); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	return token, sessionID
}

func (f *guardFixture) get(t *testing.T, path, token string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test(%s) error = %v", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRequiredAuthRejectsMissingAndBadTokens(t *testing.T) {
	f := newGuardFixture(t)

	if got := f.get(t, "/lessons", ""); got != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", got)
	}
	if got := f.get(t, "/lessons", "not-a-jwt"); got != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", got)
	}

	foreign := &JWTService{
		AccessTokenDuration: time.Hour,
		jwtSecretKey:        "some-other-secret",
	}
	token, _, err := foreign.GenerateAccessToken("user-1", "session-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if got := f.get(t, "/lessons", token); got != http.StatusUnauthorized {
		t.Errorf("foreign-signed token: status = %d, want 401", got)
	}
}

func TestRequiredAuthAllowsActiveSession(t *testing.T) {
	f := newGuardFixture(t)
	token, _ := f.seedUser(t, shared.RoleStudent)

	if got := f.get(t, "/lessons", token); got != http.StatusOK {
		t.Errorf("active session: status = %d, want 200", got)
	}
}

func TestRequiredAuthRejectsRevokedSession(t *testing.T) {
	f := newGuardFixture(t)
	token, sessionID := f.seedUser(t, shared.RoleStudent)

	if got := f.get(t, "/lessons", token); got != http.StatusOK {
		t.Fatalf("before revocation: status = %d, want 200", got)
	}

	if err := f.dbSvc.DeactivateSession(sessionID); err != nil {
		t.Fatalf("DeactivateSession() error = %v", err)
	}

	// The token itself is still unexpired; the dead session must stop it.
	if got := f.get(t, "/lessons", token); got != http.StatusUnauthorized {
		t.Errorf("after revocation: status = %d, want 401", got)
	}
}

func TestRequireAdminBlocksStudents(t *testing.T) {
	f := newGuardFixture(t)

	studentToken, _ := f.seedUser(t, shared.RoleStudent)
	adminToken, _ := f.seedUser(t, shared.RoleAdmin)

	if got := f.get(t, "/admin/users", studentToken); got != http.StatusForbidden {
		t.Errorf("student on admin route: status = %d, want 403", got)
	}
	if got := f.get(t, "/admin/users", adminToken); got != http.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", got)
	}
	if got := f.get(t, "/admin/users", ""); got != http.StatusUnauthorized {
		t.Errorf("anonymous on admin route: status = %d, want 401", got)
	}
}
