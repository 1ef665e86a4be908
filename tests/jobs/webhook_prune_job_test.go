package jobs_test

import (
	"testing"
	"time"

	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/leadline-crm/leadline-api/internal/jobs"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookPruneJob_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWebhookEventRepository(db)
	logger := zap.NewNop()

	cfg := &config.JobsConfig{
		WebhookRetentionDays: 90,
		WebhookPruneCron:     "@daily",
		PruneEnabled:         true,
	}

	expired := &domain.WebhookEvent{
		Kind:       domain.WebhookEventCallStatus,
		ProviderID: "CAexpired",
		ReceivedAt: time.Now().UTC().Add(-91 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(expired).Error)

	fresh := &domain.WebhookEvent{
		Kind:       domain.WebhookEventCallStatus,
		ProviderID: "CAfresh",
	}
	require.NoError(t, db.Create(fresh).Error)

	job := jobs.NewWebhookPruneJob(repo, cfg, logger)
	job.Run()

	var remaining []domain.WebhookEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "CAfresh", remaining[0].ProviderID)
}

func TestWebhookPruneJob_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWebhookEventRepository(db)
	logger := zap.NewNop()

	t.Run("enabled with daily descriptor", func(t *testing.T) {
		scheduler := jobs.NewScheduler(logger)
		job := jobs.NewWebhookPruneJob(repo, &config.JobsConfig{
			WebhookRetentionDays: 90,
			WebhookPruneCron:     "@daily",
			PruneEnabled:         true,
		}, logger)
		assert.NoError(t, job.Register(scheduler))
	})

	t.Run("enabled with five-field expression", func(t *testing.T) {
		scheduler := jobs.NewScheduler(logger)
		job := jobs.NewWebhookPruneJob(repo, &config.JobsConfig{
			WebhookRetentionDays: 90,
			WebhookPruneCron:     "30 3 * * *",
			PruneEnabled:         true,
		}, logger)
		assert.NoError(t, job.Register(scheduler))
	})

	t.Run("disabled registers nothing", func(t *testing.T) {
		scheduler := jobs.NewScheduler(logger)
		job := jobs.NewWebhookPruneJob(repo, &config.JobsConfig{PruneEnabled: false}, logger)
		assert.NoError(t, job.Register(scheduler))

		// The name is free, so adding it again succeeds
		assert.NoError(t, scheduler.AddJob(job.Name(), "@daily", func() {}))
	})

	t.Run("bad cron expression", func(t *testing.T) {
		scheduler := jobs.NewScheduler(logger)
		job := jobs.NewWebhookPruneJob(repo, &config.JobsConfig{
			WebhookPruneCron: "not a cron",
			PruneEnabled:     true,
		}, logger)
		assert.Error(t, job.Register(scheduler))
	})
}
