package repository_test

import (
	"testing"
	"time"

	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The schema must migrate on sqlite too: IDs and timestamps come from
// client-side hooks, never from Postgres-only column defaults.
func TestSchema_CreateAssignsIDsAndTimestamps(t *testing.T) {
	db := testutil.SetupTestDB(t)

	user := testutil.CreateTestUser(t, db, "schema@example.com")
	lead := testutil.CreateTestLead(t, db, "Schema Lead", "+15556660000")
	profile := testutil.CreateTestProfile(t, db, user, "+15556660001")
	sip := testutil.CreateTestSipAccount(t, db, user, "schema", "sip.example.com", true)

	call := &domain.CallLog{
		LeadID:    lead.ID,
		Direction: domain.DirectionOutbound,
		Status:    domain.StatusQueued,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(call).Error)

	msg := &domain.MessageLog{
		LeadID:    &lead.ID,
		Direction: domain.DirectionOutbound,
		Body:      "hello",
		Status:    domain.StatusQueued,
	}
	require.NoError(t, db.Create(msg).Error)

	event := &domain.WebhookEvent{
		Kind:       domain.WebhookEventCallStatus,
		ProviderID: "CAschema",
	}
	require.NoError(t, db.Create(event).Error)

	for name, m := range map[string]domain.BaseModel{
		"user":    user.BaseModel,
		"lead":    lead.BaseModel,
		"profile": profile.BaseModel,
		"sip":     sip.BaseModel,
		"call":    call.BaseModel,
		"message": msg.BaseModel,
	} {
		assert.NotZero(t, m.ID, name)
		assert.False(t, m.CreatedAt.IsZero(), name)
		assert.False(t, m.UpdatedAt.IsZero(), name)
	}
	assert.NotZero(t, event.ID)
	assert.False(t, event.ReceivedAt.IsZero())
}

func TestSchema_CreatedAtKeepsSubSecondPrecision(t *testing.T) {
	db := testutil.SetupTestDB(t)

	testutil.CreateTestLead(t, db, "First", "+15556661111")
	testutil.CreateTestLead(t, db, "Second", "+15556661111")

	// Two rows created within the same wall-clock second must still order
	// by creation after a round-trip through the database
	var rows []domain.Lead
	require.NoError(t, db.Order("created_at ASC").Find(&rows, "phone_number = ?", "+15556661111").Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "First", rows[0].Name)
	assert.True(t, rows[0].CreatedAt.Before(rows[1].CreatedAt))
}
