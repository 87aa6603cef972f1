package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

func TestGroupsClient_List(t *testing.T) {
	t.Parallel()
	t.Run("lists groups", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/groups", r.URL.Path)
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": 1, "name": "Engineering", "member_count": 8, "current_risk_score": 31.5},
				{"id": 2, "name": "Sales", "member_count": 5},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		groups, err := client.Groups().List(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "Engineering", groups[0].Name)
		assert.InEpsilon(t, 31.5, groups[0].CurrentRiskScore, 0.001)
	})

	t.Run("passes the status filter", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "archived", r.URL.Query().Get("status"))
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.Groups().List(context.Background(), &kb4.GroupListOptions{Status: kb4.StatusArchived})
		require.NoError(t, err)
	})

	t.Run("rejects invalid status before any request", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		_, err := client.Groups().List(context.Background(), &kb4.GroupListOptions{Status: "deleted"})
		require.ErrorIs(t, err, kb4.ErrInvalidStatus)
		assert.Equal(t, 0, requests)
	})
}

func TestGroupsClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups/15", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 15, "name": "Helpdesk", "status": "active",
			"risk_score_history": []map[string]interface{}{
				{"risk_score": 40.2, "date": "2026-07-01"},
			},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	group, err := client.Groups().Get(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, "Helpdesk", group.Name)
	require.Len(t, group.RiskScoreHistory, 1)
	assert.Equal(t, "2026-07-01", group.RiskScoreHistory[0].Date)
}
