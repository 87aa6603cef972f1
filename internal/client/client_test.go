package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secmetrics-io/kb4/internal/auth"
	"github.com/secmetrics-io/kb4/pkg/kb4"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := New("https://us.api.knowbe4.com/v1", nil)
		require.ErrorIs(t, err, kb4.ErrConfigRequired)
	})

	t.Run("requires an endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := New("", &kb4.Config{APIKey: "key"})
		require.ErrorIs(t, err, kb4.ErrAPIEndpointRequired)
	})

	t.Run("sends the configured API key on every request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret-key", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
		}))
		defer server.Close()

		client, err := New(server.URL, &kb4.Config{APIKey: "secret-key"})
		require.NoError(t, err)

		_, err = client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
	})

	t.Run("exposes every resource client", func(t *testing.T) {
		t.Parallel()

		client, err := New("https://us.api.knowbe4.com/v1", &kb4.Config{APIKey: "key"})
		require.NoError(t, err)
		assert.NotNil(t, client.Users())
		assert.NotNil(t, client.Groups())
		assert.NotNil(t, client.Account())
		assert.NotNil(t, client.Phishing())
		assert.NotNil(t, client.Training())
	})
}

func TestNewWithTokenManager(t *testing.T) {
	t.Parallel()
	t.Run("requires a token manager", func(t *testing.T) {
		t.Parallel()

		_, err := NewWithTokenManager("https://us.api.knowbe4.com/v1", &kb4.Config{}, nil)
		require.ErrorIs(t, err, kb4.ErrNoTokenManager)
	})

	t.Run("uses the supplied manager", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "managed-key", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
		}))
		defer server.Close()

		client, err := NewWithTokenManager(server.URL, &kb4.Config{}, auth.NewStaticTokenManager("managed-key"))
		require.NoError(t, err)

		_, err = client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
	})
}

func TestClientGetToken(t *testing.T) {
	t.Parallel()

	client, err := New("https://us.api.knowbe4.com/v1", &kb4.Config{APIKey: "key"})
	require.NoError(t, err)

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key", token)
}
