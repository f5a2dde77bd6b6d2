package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medicnotes/medicnotes/internal/auth"
	"github.com/medicnotes/medicnotes/internal/models"
)

func issueToken(t *testing.T, tm *auth.TokenManager, role models.Role) string {
	t.Helper()
	token, _, err := tm.GenerateToken("42", role)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestBearerAuth(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)
	other := auth.NewTokenManager("other-secret", 60)

	var gotClaims *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := BearerAuth(tm)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + issueToken(t, other, models.RoleAdmin), http.StatusUnauthorized},
		{"valid token", "Bearer " + issueToken(t, tm, models.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest(http.MethodGet, "/admin/all", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotClaims == nil || gotClaims.SubjectID != "42" {
					t.Errorf("expected claims in context, got %+v", gotClaims)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []models.Role
		tokenRole  models.Role
		wantStatus int
	}{
		{"exact match", []models.Role{models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"one of several", []models.Role{models.RoleAdmin, models.RoleDoctor}, models.RoleDoctor, http.StatusOK},
		{"role not allowed", []models.Role{models.RoleAdmin}, models.RolePatient, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuth(tm)(RequireRole(tt.allowed...)(next))

			req := httptest.NewRequest(http.MethodGet, "/admin/all", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, tm, tt.tokenRole))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_WithoutBearerAuth(t *testing.T) {
	// Mounted without BearerAuth there are no claims in the context; the
	// request must be rejected, not let through.
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/all", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}
