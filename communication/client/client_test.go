package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	t.Run("error payload", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"game not found"}`))
		}))
		defer ts.Close()

		_, err := New(ts.URL).GetGame(context.Background(), "abc")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.Status)
		require.Equal(t, "game not found", apiErr.Message)
		require.Equal(t, "server returned 404: game not found", apiErr.Error())
	})

	t.Run("plain text body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer ts.Close()

		err := New(ts.URL + "/").Health(context.Background())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Bad Gateway", apiErr.Message)
	})

	t.Run("unhealthy", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/health", r.URL.Path)
			w.Write([]byte(`{"ok":false}`))
		}))
		defer ts.Close()

		require.Error(t, New(ts.URL).Health(context.Background()))
	})
}
