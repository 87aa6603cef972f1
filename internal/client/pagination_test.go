package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// servePage answers a list request with a slice of the given collection based
// on the page and per_page query parameters.
func servePage(w http.ResponseWriter, r *http.Request, total int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	start := (page - 1) * perPage
	if start > total {
		start = total
	}

	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]map[string]interface{}, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, map[string]interface{}{"id": i + 1})
	}

	_ = json.NewEncoder(w).Encode(items)
}

func TestPagerFetchAll(t *testing.T) {
	t.Parallel()
	t.Run("walks pages until a short page", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			assert.Equal(t, "/users", r.URL.Path)
			assert.Equal(t, "500", r.URL.Query().Get("per_page"))
			servePage(w, r, 1250)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		elements, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.NoError(t, err)
		assert.Len(t, elements, 1250)
		assert.Equal(t, 3, requests)
	})

	t.Run("exact multiple costs one extra empty page", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			servePage(w, r, 1000)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		elements, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.NoError(t, err)
		assert.Len(t, elements, 1000)
		assert.Equal(t, 3, requests)
	})

	t.Run("preserves server order across pages", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			servePage(w, r, 750)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		elements, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.NoError(t, err)
		require.Len(t, elements, 750)

		for i, element := range elements {
			var record struct {
				ID int `json:"id"`
			}

			require.NoError(t, json.Unmarshal(element, &record))
			assert.Equal(t, i+1, record.ID)
		}
	})

	t.Run("singleton object body becomes one element", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/account", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"name": "ACME"})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		elements, err := client.pager.fetchAll(context.Background(), "account", nil)
		require.NoError(t, err)
		require.Len(t, elements, 1)
		assert.JSONEq(t, `{"name":"ACME"}`, string(elements[0]))
	})

	t.Run("recovers from rate limiting and waits Retry-After plus slack", func(t *testing.T) {
		t.Parallel()

		retryAfters := []int{2, 3, 4}

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			if requests <= len(retryAfters) {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfters[requests-1]))
				w.WriteHeader(http.StatusTooManyRequests)

				return
			}

			servePage(w, r, 10)
		}))
		defer server.Close()

		var slept []time.Duration

		client := NewTestClientWithSleep(server.URL, func(d time.Duration) {
			slept = append(slept, d)
		})

		elements, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.NoError(t, err)
		assert.Len(t, elements, 10)
		assert.Equal(t, 4, requests)
		require.Len(t, slept, 3)
		assert.Equal(t, 3*time.Second, slept[0])
		assert.Equal(t, 4*time.Second, slept[1])
		assert.Equal(t, 5*time.Second, slept[2])
	})

	t.Run("consecutive rate limits beyond the budget fail", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.Error(t, err)
		assert.True(t, kb4.IsRateLimitExhausted(err))
		assert.Equal(t, 6, requests)
	})

	t.Run("a success resets the rate limit budget", func(t *testing.T) {
		t.Parallel()

		// Every page costs four 429s first. With ten pages the total count
		// far exceeds the budget, but the consecutive count never does.
		var attempts int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++

			if attempts%5 != 0 {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)

				return
			}

			servePage(w, r, 4750)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		elements, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.NoError(t, err)
		assert.Len(t, elements, 4750)
	})

	t.Run("unauthorized responses are never retried", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.pager.fetchAll(context.Background(), "users", nil)
		require.Error(t, err)
		assert.True(t, kb4.IsAuthorizationError(err))
		assert.Equal(t, 1, requests)
	})

	t.Run("merges caller query with pagination parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "archived", r.URL.Query().Get("status"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			servePage(w, r, 2)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		query := map[string][]string{"status": {"archived"}}

		elements, err := client.pager.fetchAll(context.Background(), "users", query)
		require.NoError(t, err)
		assert.Len(t, elements, 2)
	})
}

func TestPagerServePageHelper(t *testing.T) {
	t.Parallel()

	// Guards the fixture itself: the helper must emit valid JSON arrays.
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/users?page=%d&per_page=%d", 1, 3), nil)

	servePage(recorder, request, 2)

	var items []map[string]interface{}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}
