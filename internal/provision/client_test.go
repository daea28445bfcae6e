package provision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://panels.example.com"

func TestCreatePanel(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create-panel", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, testOrigin, r.Header.Get("Origin"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"serverId": 123,
			"userId":   7,
			"username": "srv1",
			"node":     "sg-1",
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testOrigin)
	rec, err := client.CreatePanel(context.Background(), 1024, "srv1", "pw")
	require.NoError(t, err)

	assert.Equal(t, int64(123), rec.ServerID)
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, "srv1", rec.Username)
	assert.Equal(t, "sg-1", rec.Extra["node"], "unknown response fields pass through")
	assert.Equal(t, float64(1024), gotBody["ram"])
}

func TestCreatePanel_MissingServerID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"username": "srv1"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testOrigin)
	_, err := client.CreatePanel(context.Background(), 1024, "srv1", "pw")
	assert.ErrorContains(t, err, "serverId")
}

func TestCreatePanel_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testOrigin)
	_, err := client.CreatePanel(context.Background(), 1024, "srv1", "pw")
	assert.Error(t, err)
}

func TestDeletePanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/delete-panel", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["userId"])
		assert.Equal(t, float64(123), body["serverId"])

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testOrigin)
	assert.NoError(t, client.DeletePanel(context.Background(), 7, 123))
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"active": true, "maintenance": false})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testOrigin)
	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.False(t, status.Maintenance)
}

func TestHealth_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testOrigin)
	_, err := client.Health(context.Background())
	assert.Error(t, err)
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
		ok    bool
	}{
		{"float64", float64(42), 42, true},
		{"string", "42", 42, true},
		{"json number", json.Number("42"), 42, true},
		{"bad string", "forty-two", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toInt64(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
