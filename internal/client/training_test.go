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

func TestTrainingClient_StorePurchases(t *testing.T) {
	t.Parallel()
	t.Run("lists store purchases", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/training/store_purchases", r.URL.Path)
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"store_purchase_id": 3, "name": "Security Basics", "content_type": "Training Module"},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		purchases, err := client.Training().ListStorePurchases(context.Background())
		require.NoError(t, err)
		require.Len(t, purchases, 1)
		assert.Equal(t, "Security Basics", purchases[0].Name)
	})

	t.Run("gets one store purchase", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/training/store_purchases/3", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"store_purchase_id": 3, "retired": true})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		purchase, err := client.Training().GetStorePurchase(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, purchase.Retired)
	})
}

func TestTrainingClient_Policies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/training/policies", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 5, "name": "Acceptable Use", "minimum_time": 120},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	policies, err := client.Training().ListPolicies(context.Background())
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, 120, policies[0].MinimumTime)
}

func TestTrainingClient_Campaigns(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/training/campaigns":
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"campaign_id": 6,
					"name":        "Onboarding",
					"groups":      []int{10, 0},
					"modules": []map[string]interface{}{
						{"content_type": "Training Module", "name": "Security Basics"},
					},
				},
			})
		case "/groups":
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": 10, "name": "New Hires"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	campaigns, err := client.Training().ListCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	// The sentinel zero group id is dropped during resolution.
	require.Len(t, campaigns[0].Groups, 1)
	assert.Equal(t, "New Hires", campaigns[0].Groups[0].Group.Name)
	require.Len(t, campaigns[0].Modules, 1)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestTrainingClient_Enrollments(t *testing.T) {
	t.Parallel()
	t.Run("lists enrollments with filters and derives status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/training/enrollments", r.URL.Path)
			assert.Equal(t, "3", r.URL.Query().Get("store_purchase_id"))
			assert.Equal(t, "6", r.URL.Query().Get("campaign_id"))
			assert.Equal(t, "8", r.URL.Query().Get("user_id"))
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"enrollment_id": 1, "status": "In Progress", "time_spent": 0},
				{"enrollment_id": 2, "status": "Passed", "time_spent": 300},
				{"enrollment_id": 3, "status": "Past Due", "time_spent": 40},
				{"enrollment_id": 4, "status": "Past Due", "time_spent": 0},
				{"enrollment_id": 5, "status": "In Progress", "time_spent": 15},
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		enrollments, err := client.Training().ListEnrollments(context.Background(), &kb4.EnrollmentListOptions{
			StorePurchaseID: 3,
			CampaignID:      6,
			UserID:          8,
		})
		require.NoError(t, err)
		require.Len(t, enrollments, 5)
		assert.Equal(t, kb4.StatusNotStarted, enrollments[0].Status)
		assert.Equal(t, kb4.StatusCompleted, enrollments[1].Status)
		assert.Equal(t, kb4.StatusInProgress, enrollments[2].Status)
		assert.Equal(t, kb4.StatusNotStarted, enrollments[3].Status)
		assert.Equal(t, kb4.StatusInProgress, enrollments[4].Status)
	})

	t.Run("gets one enrollment and hydrates the user", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/training/enrollments/9":
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"enrollment_id": 9,
					"module_name":   "Security Basics",
					"status":        "Passed",
					"time_spent":    450,
					"user":          map[string]interface{}{"id": 8, "email": "bob@example.com"},
				})
			case "/users":
				_ = json.NewEncoder(w).Encode([]map[string]interface{}{
					{"id": 8, "email": "bob@example.com", "first_name": "Bob", "last_name": "Builder"},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		enrollment, err := client.Training().GetEnrollment(context.Background(), 9)
		require.NoError(t, err)
		assert.Equal(t, kb4.StatusCompleted, enrollment.Status)
		require.True(t, enrollment.User.Resolved())
		assert.Equal(t, "Builder", enrollment.User.User.LastName)
	})
}
