package kb4client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secmetrics-io/kb4/pkg/kb4"
	"github.com/secmetrics-io/kb4/pkg/kb4client"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := kb4client.New(nil)
		require.ErrorIs(t, err, kb4.ErrConfigRequired)
	})

	t.Run("defaults to the US region", func(t *testing.T) {
		t.Parallel()

		client, err := kb4client.New(&kb4.Config{APIKey: "key"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("accepts each documented region", func(t *testing.T) {
		t.Parallel()

		for _, region := range []string{"us", "eu", "ca", "uk", "de", "EU"} {
			_, err := kb4client.New(&kb4.Config{Region: region, APIKey: "key"})
			require.NoError(t, err, "region %s", region)
		}
	})

	t.Run("rejects an unknown region", func(t *testing.T) {
		t.Parallel()

		_, err := kb4client.New(&kb4.Config{Region: "mars", APIKey: "key"})
		require.ErrorIs(t, err, kb4.ErrUnknownRegion)
		assert.Contains(t, err.Error(), "mars")
	})

	t.Run("endpoint override wins over region", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/account", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"name": "ACME"})
		}))
		defer server.Close()

		client, err := kb4client.New(&kb4.Config{
			Region:      "eu",
			APIEndpoint: server.URL,
			APIKey:      "key",
		})
		require.NoError(t, err)

		account, err := client.Account().Get(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, "ACME", account.Name)
	})

	t.Run("normalizes a bare host endpoint", func(t *testing.T) {
		t.Parallel()

		client, err := kb4client.New(&kb4.Config{
			APIEndpoint: "proxy.internal.example.com/v1/",
			APIKey:      "key",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestNewWithAPIKey(t *testing.T) {
	t.Parallel()

	client, err := kb4client.NewWithAPIKey("uk", "key")
	require.NoError(t, err)
	assert.NotNil(t, client.Training())
}
