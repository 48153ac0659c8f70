package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	type payload struct {
		Content string `json:"content"`
	}

	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient()
	err := c.PostJSON(context.Background(), srv.URL, payload{Content: "ticket closed"})
	require.NoError(t, err)
	require.Equal(t, "ticket closed", got.Content)
}

func TestClient_PostJSON_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient()
	err := c.PostJSON(context.Background(), srv.URL, map[string]string{"content": "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}
