package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newMigrateApp(seed SeedFunc) *fiber.App {
	handler := NewMigrateHandler("bootstrap-secret", seed, zap.NewNop())
	app := fiber.New()
	app.All("/api/migrate", handler.Trigger)
	return app
}

func migrateRequest(t *testing.T, app *fiber.App, method, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/api/migrate", nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func TestMigrateTrigger_MethodNotAllowed(t *testing.T) {
	ran := false
	app := newMigrateApp(func(context.Context) error {
		ran = true
		return nil
	})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := migrateRequest(t, app, method, "Bearer bootstrap-secret")
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", method, resp.StatusCode)
		}
	}
	if ran {
		t.Error("seed ran on a non-POST request")
	}
}

func TestMigrateTrigger_Unauthorized(t *testing.T) {
	ran := false
	app := newMigrateApp(func(context.Context) error {
		ran = true
		return nil
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong secret", header: "Bearer wrong-secret"},
		{name: "not bearer", header: "Basic bootstrap-secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := migrateRequest(t, app, http.MethodPost, tt.header)
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
	if ran {
		t.Error("seed ran without the correct secret")
	}
}

func TestMigrateTrigger_Success(t *testing.T) {
	ran := false
	app := newMigrateApp(func(context.Context) error {
		ran = true
		return nil
	})

	resp := migrateRequest(t, app, http.MethodPost, "Bearer bootstrap-secret")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !ran {
		t.Fatal("seed did not run")
	}

	var body struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.Message == "" || body.Timestamp == "" {
		t.Errorf("incomplete envelope: %+v", body)
	}
}

func TestMigrateTrigger_SeedFailure(t *testing.T) {
	app := newMigrateApp(func(context.Context) error {
		return errors.New("relation does not exist")
	})

	resp := migrateRequest(t, app, http.MethodPost, "Bearer bootstrap-secret")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Details != "relation does not exist" {
		t.Errorf("details = %q, want the seed error", body.Details)
	}
}
