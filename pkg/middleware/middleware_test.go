package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookloop/library-service/pkg/auth"
	md "github.com/bookloop/library-service/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	api := e.Group("", md.JwtAuthentication)
	api.GET("/whoami", func(c echo.Context) error {
		id, _ := auth.UserID(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]int64{"userId": id})
	})
	admin := api.Group("/admin", md.AdminOnly)
	admin.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()

	e := newEcho()

	t.Run("no header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Basic abc")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets context", func(t *testing.T) {
		token, err := auth.SignToken(42, auth.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+token)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"userId":42}`, w.Body.String())
	})
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	e := newEcho()

	t.Run("user role forbidden", func(t *testing.T) {
		token, err := auth.SignToken(42, auth.RoleUser)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/admin/ping", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+token)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin role allowed", func(t *testing.T) {
		token, err := auth.SignToken(1, auth.RoleAdmin)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/admin/ping", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+token)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "pong", w.Body.String())
	})
}
