package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"staywise/pkg/logger"
	"staywise/pkg/model"
	"staywise/pkg/token"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func okHandler(t *testing.T, wantRole model.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Errorf("expected claims in context")
		} else if wantRole != "" && claims.Role != wantRole {
			t.Errorf("expected role %q, got %q", wantRole, claims.Role)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticate(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	log := testLogger()

	signed, err := codec.Sign("64b1f0a9c2d3e4f5a6b7c8d9", "u@example.com", model.RoleUser)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + signed, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := Authenticate(codec, log)(okHandler(t, model.RoleUser))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handle(w, r, nil)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	codec := token.NewCodec("test-secret", -time.Minute)
	log := testLogger()

	signed, err := codec.Sign("64b1f0a9c2d3e4f5a6b7c8d9", "u@example.com", model.RoleUser)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	handle := Authenticate(codec, log)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Errorf("handler should not run with an expired token")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()

	handle(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	log := testLogger()

	tests := []struct {
		name       string
		role       model.Role
		required   model.Role
		wantStatus int
	}{
		{"admin allowed", model.RoleAdmin, model.RoleAdmin, http.StatusOK},
		{"user forbidden", model.RoleUser, model.RoleAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := codec.Sign("64b1f0a9c2d3e4f5a6b7c8d9", "u@example.com", tt.role)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}

			handle := Authenticate(codec, log)(RequireRole(tt.required, log)(okHandler(t, tt.role)))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/all", nil)
			r.Header.Set("Authorization", "Bearer "+signed)
			w := httptest.NewRecorder()

			handle(w, r, nil)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	log := testLogger()

	handle := RequireRole(model.RoleAdmin, log)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Errorf("handler should not run without claims")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/all", nil)
	w := httptest.NewRecorder()

	handle(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
