package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/pkg/config"
	"github.com/saran-softdev/component-library-sub001/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/access/sidebar", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("logger", zap.NewNop())
	return c, rec
}

func TestAuthMiddlewarePopulatesPrincipal(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := jwtutil.GenerateToken("owner@example.com", 1, 2, 3)
	require.NoError(t, err)

	c, rec := newAuthContext(t, "Bearer "+token)

	var seen access.Principal
	next := func(c echo.Context) error {
		seen = PrincipalFromContext(c)
		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, AuthMiddleware(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, access.Principal{UserID: 1, RoleID: 2, OrganizationID: 3}, seen)
	assert.Equal(t, "owner@example.com", c.Get("email"))
}

func TestAuthMiddlewareRejectsBadRequests(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthContext(t, tt.authorization)

			next := func(c echo.Context) error {
				t.Fatal("handler must not run for unauthenticated requests")
				return nil
			}

			require.NoError(t, AuthMiddleware(next)(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
