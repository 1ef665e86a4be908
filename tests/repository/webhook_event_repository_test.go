package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookEventRepository_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWebhookEventRepository(db)
	ctx := context.Background()

	old := &domain.WebhookEvent{
		Kind:       domain.WebhookEventCallStatus,
		ProviderID: "CAold",
		ReceivedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, old))

	recent := &domain.WebhookEvent{
		Kind:       domain.WebhookEventInboundMessage,
		ProviderID: "SMrecent",
	}
	require.NoError(t, repo.Create(ctx, recent))

	cutoff := time.Now().UTC().Add(-90 * 24 * time.Hour)
	removed, err := repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining []domain.WebhookEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "SMrecent", remaining[0].ProviderID)
}

func TestWebhookEventRepository_ListByProviderID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWebhookEventRepository(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &domain.WebhookEvent{
			Kind:       domain.WebhookEventCallStatus,
			ProviderID: "CAhistory",
			Payload:    `{"CallStatus":"ringing"}`,
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.WebhookEvent{
		Kind:       domain.WebhookEventCallStatus,
		ProviderID: "CAother",
	}))

	events, err := repo.ListByProviderID(ctx, "CAhistory")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
