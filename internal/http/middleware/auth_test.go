package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prefeiturafeijo/servicedesk/internal/admin"
	"github.com/prefeiturafeijo/servicedesk/internal/auth"
)

func newManager(t *testing.T) *auth.JWTManager {
	t.Helper()
	return auth.NewJWTManager("segredo-teste", time.Minute)
}

func protectedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	called := false
	handler := Auth(newManager(t))(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/admin/solicitacoes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
	if called {
		t.Fatal("handler protegido não deveria ser alcançado")
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	called := false
	handler := Auth(newManager(t))(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/admin/solicitacoes", nil)
	req.Header.Set("Authorization", "Bearer nao-e-um-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
}

func TestAuthInjectsClaims(t *testing.T) {
	manager := newManager(t)
	token, _, err := manager.GenerateAccessToken("admin-1", []string{admin.RoleAdmin})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	var subject string
	var roles []string
	handler := Auth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = GetSubject(r.Context())
		roles = GetRoles(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if subject != "admin-1" {
		t.Fatalf("subject = %q", subject)
	}
	if len(roles) != 1 || roles[0] != admin.RoleAdmin {
		t.Fatalf("roles = %v", roles)
	}
}

func TestRequireMaster(t *testing.T) {
	manager := newManager(t)

	run := func(roles []string) int {
		token, _, err := manager.GenerateAccessToken("admin-1", roles)
		if err != nil {
			t.Fatalf("token: %v", err)
		}

		handler := Auth(manager)(RequireMaster(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

		req := httptest.NewRequest(http.MethodGet, "/admin/usuarios", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := run([]string{admin.RoleAdmin}); code != http.StatusForbidden {
		t.Fatalf("ADMIN sem MASTER: status = %d, esperado 403", code)
	}
	if code := run([]string{admin.RoleAdmin, admin.RoleMaster}); code != http.StatusNoContent {
		t.Fatalf("MASTER: status = %d, esperado 204", code)
	}
}
