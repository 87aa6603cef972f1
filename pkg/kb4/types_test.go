package kb4_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

func TestGroupRefUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantID       int
		wantResolved bool
	}{
		{name: "bare integer id", input: `42`, wantID: 42},
		{name: "partial object with group_id", input: `{"group_id": 42}`, wantID: 42},
		{name: "full group object", input: `{"id": 42, "name": "Engineering"}`, wantID: 42, wantResolved: true},
		{name: "null", input: `null`, wantID: 0},
		{name: "sentinel zero", input: `0`, wantID: 0},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var ref kb4.GroupRef

			require.NoError(t, json.Unmarshal([]byte(testCase.input), &ref))
			assert.Equal(t, testCase.wantID, ref.ID)
			assert.Equal(t, testCase.wantResolved, ref.Resolved())
		})
	}
}

func TestGroupRefMarshal(t *testing.T) {
	t.Parallel()
	t.Run("unresolved emits the bare id", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(kb4.GroupRef{ID: 42})
		require.NoError(t, err)
		assert.JSONEq(t, `42`, string(out))
	})

	t.Run("resolved emits the nested object", func(t *testing.T) {
		t.Parallel()

		ref := kb4.GroupRef{ID: 42, Group: &kb4.Group{ID: 42, Name: "Engineering"}}

		out, err := json.Marshal(ref)
		require.NoError(t, err)

		var decoded map[string]interface{}

		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, "Engineering", decoded["name"])
	})
}

func TestPSTRefUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantID       int
		wantResolved bool
	}{
		{name: "bare integer id", input: `11`, wantID: 11},
		{name: "partial object with pst_id", input: `{"pst_id": 11}`, wantID: 11},
		{name: "object with a name stays unresolved", input: `{"pst_id": 11, "name": "Q1 Baseline"}`, wantID: 11},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var ref kb4.PSTRef

			require.NoError(t, json.Unmarshal([]byte(testCase.input), &ref))
			assert.Equal(t, testCase.wantID, ref.ID)
			assert.Equal(t, testCase.wantResolved, ref.Resolved())
		})
	}
}

func TestUserRefUnmarshal(t *testing.T) {
	t.Parallel()
	t.Run("bare integer id", func(t *testing.T) {
		t.Parallel()

		var ref kb4.UserRef

		require.NoError(t, json.Unmarshal([]byte(`8`), &ref))
		assert.Equal(t, 8, ref.ID)
		assert.False(t, ref.Resolved())
	})

	t.Run("partial object with id and email", func(t *testing.T) {
		t.Parallel()

		var ref kb4.UserRef

		require.NoError(t, json.Unmarshal([]byte(`{"id": 8, "email": "bob@example.com"}`), &ref))
		assert.Equal(t, 8, ref.ID)
		assert.Equal(t, "bob@example.com", ref.Email)
		assert.False(t, ref.Resolved())
	})
}

func TestDeriveEnrollmentStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    string
		timeSpent int
		want      string
	}{
		{name: "in progress without time becomes not started", status: kb4.StatusInProgress, timeSpent: 0, want: kb4.StatusNotStarted},
		{name: "in progress with time stays", status: kb4.StatusInProgress, timeSpent: 30, want: kb4.StatusInProgress},
		{name: "passed becomes completed", status: kb4.StatusPassed, timeSpent: 300, want: kb4.StatusCompleted},
		{name: "past due with time becomes in progress", status: kb4.StatusPastDue, timeSpent: 45, want: kb4.StatusInProgress},
		{name: "past due without time becomes not started", status: kb4.StatusPastDue, timeSpent: 0, want: kb4.StatusNotStarted},
		{name: "unknown status passes through", status: "Closed", timeSpent: 0, want: "Closed"},
		{name: "completed passes through", status: kb4.StatusCompleted, timeSpent: 200, want: kb4.StatusCompleted},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, kb4.DeriveEnrollmentStatus(testCase.status, testCase.timeSpent))
		})
	}
}

func TestTrainingEnrollmentUnmarshal(t *testing.T) {
	t.Parallel()

	input := `{
		"enrollment_id": 9,
		"module_name": "Security Basics",
		"status": "Past Due",
		"time_spent": 45,
		"user": {"id": 8, "email": "bob@example.com"},
		"policy_acknowledged": true
	}`

	var enrollment kb4.TrainingEnrollment

	require.NoError(t, json.Unmarshal([]byte(input), &enrollment))
	assert.Equal(t, 9, enrollment.EnrollmentID)
	assert.Equal(t, kb4.StatusInProgress, enrollment.Status)
	assert.Equal(t, 45, enrollment.TimeSpent)
	assert.Equal(t, 8, enrollment.User.ID)
	assert.True(t, enrollment.PolicyAcknowledged)
}

func TestUserUnmarshalMissingFieldsZero(t *testing.T) {
	t.Parallel()

	var user kb4.User

	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "email": "a@example.com"}`), &user))
	assert.Equal(t, 1, user.ID)
	assert.Empty(t, user.FirstName)
	assert.Zero(t, user.CurrentRiskScore)
	assert.Nil(t, user.JoinedOn)
	assert.Empty(t, user.Groups)
}
