package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func performRequest(t *testing.T, m *AdminAuthMiddleware, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rentals", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var reachedNext bool
	handler := m.Authenticate()(func(c echo.Context) error {
		reachedNext = IsAdmin(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, reachedNext
}

func TestAdminAuth_ValidToken(t *testing.T) {
	m := NewAdminAuthMiddleware([]string{"secret-token"})

	rec, isAdmin := performRequest(t, m, "Bearer secret-token")

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if !isAdmin {
		t.Error("Expected admin flag to be set on the request context")
	}
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	m := NewAdminAuthMiddleware([]string{"secret-token"})

	rec, _ := performRequest(t, m, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_WrongToken(t *testing.T) {
	m := NewAdminAuthMiddleware([]string{"secret-token"})

	rec, _ := performRequest(t, m, "Bearer wrong")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_MalformedHeader(t *testing.T) {
	m := NewAdminAuthMiddleware([]string{"secret-token"})

	rec, _ := performRequest(t, m, "secret-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestValidateToken_MultipleTokens(t *testing.T) {
	m := NewAdminAuthMiddleware([]string{"alpha", "beta"})

	if !m.ValidateToken("beta") {
		t.Error("Expected second configured token to validate")
	}
	if m.ValidateToken("gamma") {
		t.Error("Expected unknown token to be rejected")
	}
}
