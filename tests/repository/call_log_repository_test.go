package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCallLogRepository_GetByProviderCallID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCallLogRepository(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "Provider Lead", "+15558880001")

	call := &domain.CallLog{
		LeadID:         lead.ID,
		ProviderCallID: "CArepo1",
		Direction:      domain.DirectionOutbound,
		Status:         domain.StatusQueued,
		StartedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, call))

	found, err := repo.GetByProviderCallID(ctx, "CArepo1")
	require.NoError(t, err)
	assert.Equal(t, call.ID, found.ID)

	_, err = repo.GetByProviderCallID(ctx, "CAmissing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCallLogRepository_ListByLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCallLogRepository(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "List Calls Lead", "+15558880002")
	other := testutil.CreateTestLead(t, db, "Other Lead", "+15558880003")

	for i := 0; i < 3; i++ {
		call := &domain.CallLog{
			LeadID:    lead.ID,
			Direction: domain.DirectionOutbound,
			Status:    "completed",
			StartedAt: time.Now().UTC().Add(-time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, call))
	}
	require.NoError(t, repo.Create(ctx, &domain.CallLog{
		LeadID:    other.ID,
		Direction: domain.DirectionOutbound,
		StartedAt: time.Now().UTC(),
	}))

	calls, err := repo.ListByLead(ctx, lead.ID, 0)
	require.NoError(t, err)
	require.Len(t, calls, 3)

	// Most recent first
	assert.True(t, calls[0].StartedAt.After(calls[1].StartedAt))
	assert.True(t, calls[1].StartedAt.After(calls[2].StartedAt))

	limited, err := repo.ListByLead(ctx, lead.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
