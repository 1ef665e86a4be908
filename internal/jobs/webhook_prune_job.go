package jobs

import (
	"context"
	"time"

	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"go.uber.org/zap"
)

const pruneJobTimeout = 5 * time.Minute

// WebhookPruneJob deletes webhook event audit rows older than the configured
// retention window. The audit trail exists for troubleshooting recent
// delivery issues, not as a permanent archive.
type WebhookPruneJob struct {
	webhookRepo *repository.WebhookEventRepository
	cfg         *config.JobsConfig
	logger      *zap.Logger
}

func NewWebhookPruneJob(
	webhookRepo *repository.WebhookEventRepository,
	cfg *config.JobsConfig,
	logger *zap.Logger,
) *WebhookPruneJob {
	return &WebhookPruneJob{
		webhookRepo: webhookRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Name returns the scheduler job name
func (j *WebhookPruneJob) Name() string {
	return "webhook-event-prune"
}

// Run executes one prune pass
func (j *WebhookPruneJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneJobTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.cfg.RetentionDuration())

	removed, err := j.webhookRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("webhook event prune failed", zap.Error(err))
		return
	}

	j.logger.Info("webhook events pruned",
		zap.Int64("removed", removed),
		zap.Time("cutoff", cutoff),
	)
}

// Register adds the job to the scheduler if pruning is enabled
func (j *WebhookPruneJob) Register(scheduler *Scheduler) error {
	if !j.cfg.PruneEnabled {
		j.logger.Info("webhook event prune disabled")
		return nil
	}
	return scheduler.AddJob(j.Name(), j.cfg.WebhookPruneCron, j.Run)
}
