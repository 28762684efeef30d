package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/domain"
)

const testCookie = "console_session"

type authFixture struct {
	app      *fiber.App
	codec    *TokenCodec
	sessions *MemorySessionStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	codec := NewTokenCodec("test-secret-key", 60)
	sessions := NewMemorySessionStore(time.Hour)
	resolver := newTestResolver()

	middleware := NewMiddleware(resolver,
		NewBearerTransport(codec),
		NewCookieTransport(sessions, testCookie),
	)

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Use(middleware.Authenticate)

	echo := func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{
			"id":   principal.ID(),
			"kind": principal.Kind,
			"role": principal.Role(),
		})
	}

	app.Get("/me", RequireAuthenticated(), echo)
	app.Get("/admin/dashboard", RequireKind(domain.PrincipalKindOperator), echo)
	app.Get("/admin/operators", RequireSuperAdmin(), echo)
	app.Get("/subscriber/dashboard", RequireKind(domain.PrincipalKindSubscriber), echo)

	return &authFixture{app: app, codec: codec, sessions: sessions}
}

func (f *authFixture) request(t *testing.T, path, bearer, cookie string) (*http.Response, int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp, resp.StatusCode
}

func decodeEcho(t *testing.T, resp *http.Response) (int64, string, string) {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		ID   int64  `json:"id"`
		Kind string `json:"kind"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body.ID, body.Kind, body.Role
}

func TestAuthenticate_BearerSuperAdmin(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := f.codec.Issue(7, domain.PrincipalKindOperator)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	resp, status := f.request(t, "/admin/operators", token, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	id, kind, role := decodeEcho(t, resp)
	if id != 7 || kind != "operator" || role != "SuperAdmin" {
		t.Errorf("context = {id:%d kind:%s role:%s}, want {id:7 kind:operator role:SuperAdmin}", id, kind, role)
	}
}

func TestAuthenticate_SessionCookie(t *testing.T) {
	f := newAuthFixture(t)

	id, err := f.sessions.Create(context.Background(), SessionSummary{
		PrincipalID: 7, Kind: domain.PrincipalKindOperator, Role: domain.RoleSuperAdmin,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resp, status := f.request(t, "/me", "", id)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	gotID, kind, _ := decodeEcho(t, resp)
	if gotID != 7 || kind != "operator" {
		t.Errorf("context = {id:%d kind:%s}, want {id:7 kind:operator}", gotID, kind)
	}
}

func TestAuthenticate_DestroyedSession(t *testing.T) {
	f := newAuthFixture(t)

	id, err := f.sessions.Create(context.Background(), SessionSummary{
		PrincipalID: 7, Kind: domain.PrincipalKindOperator, Role: domain.RoleSuperAdmin,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := f.sessions.Destroy(context.Background(), id); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	resp, status := f.request(t, "/me", "", id)
	resp.Body.Close()
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for destroyed session", status)
	}
}

func TestAuthenticate_SubscriberOnOperatorRoute(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := f.codec.Issue(3, domain.PrincipalKindSubscriber)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	resp, status := f.request(t, "/admin/dashboard", token, "")
	resp.Body.Close()
	if status != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for subscriber on operator route", status)
	}
}

func TestAuthenticate_InactivePrincipal(t *testing.T) {
	f := newAuthFixture(t)

	// Operator 8 exists but is Inactive; a valid token is not enough.
	token, _, err := f.codec.Issue(8, domain.PrincipalKindOperator)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	resp, status := f.request(t, "/me", token, "")
	resp.Body.Close()
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for inactive principal", status)
	}
}

func TestAuthenticate_DeletedPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	// Token for an operator row that no longer exists.
	token, _, err := f.codec.Issue(999, domain.PrincipalKindOperator)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	resp, status := f.request(t, "/me", token, "")
	resp.Body.Close()
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for deleted principal", status)
	}
}

func TestAuthenticate_HeaderTakesPrecedence(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := f.codec.Issue(7, domain.PrincipalKindOperator)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	sessionID, err := f.sessions.Create(context.Background(), SessionSummary{
		PrincipalID: 3, Kind: domain.PrincipalKindSubscriber, Role: domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resp, status := f.request(t, "/me", token, sessionID)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	id, kind, _ := decodeEcho(t, resp)
	if id != 7 || kind != "operator" {
		t.Errorf("context = {id:%d kind:%s}, want bearer principal {id:7 kind:operator}", id, kind)
	}
}

func TestAuthenticate_BadBearerFallsBackToCookie(t *testing.T) {
	f := newAuthFixture(t)

	sessionID, err := f.sessions.Create(context.Background(), SessionSummary{
		PrincipalID: 3, Kind: domain.PrincipalKindSubscriber, Role: domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resp, status := f.request(t, "/subscriber/dashboard", "not-a-token", sessionID)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 via cookie fallback", status)
	}
	id, kind, _ := decodeEcho(t, resp)
	if id != 3 || kind != "subscriber" {
		t.Errorf("context = {id:%d kind:%s}, want {id:3 kind:subscriber}", id, kind)
	}
}

// blockingSessionStore parks every lookup until the request context is
// done, standing in for an unresponsive shared store.
type blockingSessionStore struct{}

func (blockingSessionStore) Create(context.Context, SessionSummary) (string, error) {
	return "", ErrSessionNotFound
}

func (blockingSessionStore) Get(ctx context.Context, _ string) (SessionSummary, error) {
	<-ctx.Done()
	return SessionSummary{}, ErrSessionNotFound
}

func (blockingSessionStore) Destroy(context.Context, string) error { return nil }

func TestAuthenticate_SessionLookupHonorsRequestDeadline(t *testing.T) {
	middleware := NewMiddleware(newTestResolver(),
		NewCookieTransport(blockingSessionStore{}, testCookie),
	)

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 50*time.Millisecond)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Use(middleware.Authenticate)
	app.Get("/me", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stalled-session"})

	start := time.Now()
	resp, err := app.Test(req, 5000)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 when the store stalls", resp.StatusCode)
	}
	if elapsed > time.Second {
		t.Errorf("request took %v; the store lookup ignored the request deadline", elapsed)
	}
}

func TestAuthenticate_NoCredential(t *testing.T) {
	f := newAuthFixture(t)

	resp, status := f.request(t, "/me", "", "")
	resp.Body.Close()
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 with no credential", status)
	}
}
