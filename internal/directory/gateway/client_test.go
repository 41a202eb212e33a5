package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	snapshot := models.Snapshot{
		Companies:   []models.Company{{ID: "sap-1", Name: "SAP", AlternativeFor: []string{}}},
		HiddenIDs:   []string{"sap-1"},
		LastUpdated: &now,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/companies", r.URL.Path)
		_ = json.NewEncoder(w).Encode(snapshot)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot.Companies, got.Companies)
	assert.Equal(t, snapshot.HiddenIDs, got.HiddenIDs)
	require.NotNil(t, got.LastUpdated)
	assert.True(t, now.Equal(*got.LastUpdated))
}

func TestClientFetchErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Fetch(context.Background())
		assert.ErrorIs(t, err, e.ErrUnavailable)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Fetch(context.Background())
		assert.ErrorIs(t, err, e.ErrUnavailable)
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:1").Fetch(context.Background())
		assert.ErrorIs(t, err, e.ErrUnavailable)
	})
}

func TestClientStore(t *testing.T) {
	var received models.Snapshot
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/companies", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "lastUpdated": time.Now()})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("test-token")

	snapshot := &models.Snapshot{
		Companies: []models.Company{{ID: "a-1", Name: "Acme"}},
		HiddenIDs: []string{},
	}
	require.NoError(t, client.Store(context.Background(), snapshot))
	assert.Equal(t, "Bearer test-token", gotAuth)
	require.Len(t, received.Companies, 1)
	assert.Equal(t, "Acme", received.Companies[0].Name)
}

func TestClientLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "session-token"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	token, err := client.Login(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "session-token", token)

	_, err = client.Login(context.Background(), "wrong")
	assert.Error(t, err)
}
