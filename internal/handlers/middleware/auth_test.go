package middleware

import (
	"context"
	"errors"
	"testing"

	"io"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/require"

	"github.com/boostbd/smmpanel/internal/handlers/userctx"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/auth"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, r *http.Request) (models.User, auth.Principal, error)

func (f authFunc) Auth(ctx context.Context, r *http.Request) (models.User, auth.Principal, error) {
	return f(ctx, r)
}

func TestAuthMiddleware(t *testing.T) {
	// Simple handler that try to get user from context
	// If ok write it email to response
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user to response or write error to response
		user, _, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Email))
		require.NoError(t, err, "should write email to response")
	})

	t.Run("auth ok", func(t *testing.T) {
		// Middleware that always return ok
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.User, auth.Principal, error) {
			return models.User{Email: "rahim@example.com"}, auth.Principal{Email: "rahim@example.com"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", string(body))
		require.Equal(t, "rahim@example.com", string(body), "should return email in response")
	})

	t.Run("auth fail", func(t *testing.T) {
		// Middleware that always fails
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.User, auth.Principal, error) {
			return models.User{}, auth.Principal{}, errors.New("no way")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", string(body))
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Unauthorized"
			}`,
			string(body),
		)
	})
}

func TestAdminOnly(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("admin area"))
	})

	serve := func(t *testing.T, principal auth.Principal) *http.Response {
		t.Helper()

		withUser := AuthMiddleware(authFunc(func(ctx context.Context, r *http.Request) (models.User, auth.Principal, error) {
			return models.User{Email: principal.Email}, principal, nil
		}))

		srv := httptest.NewServer(withUser(AdminOnly()(handler)))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		return resp
	}

	t.Run("admin passes", func(t *testing.T) {
		resp := serve(t, auth.Principal{Email: "admin@example.com", Role: auth.RoleAdmin})
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("customer rejected", func(t *testing.T) {
		resp := serve(t, auth.Principal{Email: "rahim@example.com", Role: auth.RoleCustomer})
		defer resp.Body.Close() // nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Forbidden"
			}`,
			string(body),
		)
	})
}
