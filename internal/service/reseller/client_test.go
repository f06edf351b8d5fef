package reseller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/boostbd/smmpanel/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "test-key", logger.NewNoOp())
}

func TestRelay(t *testing.T) {
	t.Run("posts form with injected key", func(t *testing.T) {
		var gotKey, gotAction, gotLink string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotKey = r.PostFormValue("key")
			gotAction = r.PostFormValue("action")
			gotLink = r.PostFormValue("link")
			_, _ = w.Write([]byte(`{"ok": true}`))
		})

		raw, err := c.Relay(t.Context(), "add", map[string]string{"link": "https://x.com/p"})

		require.NoError(t, err)
		require.JSONEq(t, `{"ok": true}`, string(raw))
		require.Equal(t, "test-key", gotKey)
		require.Equal(t, "add", gotAction)
		require.Equal(t, "https://x.com/p", gotLink)
	})

	t.Run("non-JSON body is bad payload", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		})

		_, err := c.Relay(t.Context(), "services", nil)

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeBadPayload, resellerErr.Code)
	})

	t.Run("non-200 status is unavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.Relay(t.Context(), "services", nil)

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeUnavailable, resellerErr.Code)
	})

	t.Run("unreachable server is unavailable", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "test-key", logger.NewNoOp())

		_, err := c.Relay(t.Context(), "services", nil)

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeUnavailable, resellerErr.Code)
	})
}

func TestServices(t *testing.T) {
	t.Run("bare array with mixed scalar types", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"service": 1, "name": "Facebook Page Likes", "category": "Facebook Services", "rate": "0.50", "min": "100", "max": 10000},
				{"id": "7", "name": "TikTok Views", "category": "TikTok Services", "rate": 0.01, "min": 1000, "max": "1000000"}
			]`))
		})

		services, err := c.Services(t.Context())

		require.NoError(t, err)
		require.Len(t, services, 2)
		require.Equal(t, "1", services[0].Service.String())
		require.Equal(t, "0.50", services[0].Rate.String())
		require.Equal(t, "10000", services[0].Max.String())
		require.Equal(t, "7", services[1].ID.String())
		require.Equal(t, "0.01", services[1].Rate.String())
	})

	t.Run("wrapped services object", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"services": [{"service": "5", "name": "Instagram Followers", "category": "Instagram Services", "rate": "0.80", "min": "100", "max": "50000"}]}`))
		})

		services, err := c.Services(t.Context())

		require.NoError(t, err)
		require.Len(t, services, 1)
		require.Equal(t, "Instagram Followers", services[0].Name)
	})

	t.Run("explicit error field", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error": "Invalid API key"}`))
		})

		_, err := c.Services(t.Context())

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeUpstream, resellerErr.Code)
	})
}

func TestAddOrder(t *testing.T) {
	t.Run("numeric order id ok", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "1", r.PostFormValue("service"))
			require.Equal(t, "500", r.PostFormValue("quantity"))
			_ = json.NewEncoder(w).Encode(map[string]any{"order": 23501})
		})

		orderID, err := c.AddOrder(t.Context(), "1", "https://facebook.com/page", 500)

		require.NoError(t, err)
		require.Equal(t, "23501", orderID)
	})

	t.Run("panel rejection surfaces error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error": "Not enough funds in panel"}`))
		})

		_, err := c.AddOrder(t.Context(), "1", "https://facebook.com/page", 500)

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeUpstream, resellerErr.Code)
		require.Contains(t, resellerErr.Error(), "Not enough funds")
	})

	t.Run("missing order id is an upstream error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := c.AddOrder(t.Context(), "1", "https://facebook.com/page", 500)

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeUpstream, resellerErr.Code)
	})
}

func TestGetOrderStatus(t *testing.T) {
	t.Run("status ok", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "23501", r.PostFormValue("order"))
			_, _ = w.Write([]byte(`{"charge": "0.27819", "start_count": "3572", "status": "Partial", "remains": "157", "currency": "USD"}`))
		})

		status, err := c.GetOrderStatus(t.Context(), "23501")

		require.NoError(t, err)
		require.Equal(t, "Partial", status.Status)
		require.Equal(t, "157", status.Remains.String())
	})

	t.Run("missing status is bad payload", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"currency": "USD"}`))
		})

		_, err := c.GetOrderStatus(t.Context(), "23501")

		var resellerErr *Error
		require.ErrorAs(t, err, &resellerErr)
		require.Equal(t, CodeBadPayload, resellerErr.Code)
	})
}
