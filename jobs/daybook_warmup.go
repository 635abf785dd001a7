package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/spinmill-erp/spinmill-erp/internal/report"
)

// DaybookWarmupJob pre-warms the day-book cache for recent daily
// windows so the morning screens open hot.
type DaybookWarmupJob struct {
	reports *report.Service
	logger  *slog.Logger
}

// NewDaybookWarmupJob constructs the job.
func NewDaybookWarmupJob(reports *report.Service, logger *slog.Logger) *DaybookWarmupJob {
	return &DaybookWarmupJob{reports: reports, logger: logger}
}

// Handle processes TaskDaybookWarmup tasks.
func (j *DaybookWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload DaybookWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Days <= 0 {
		payload.Days = 7
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < payload.Days; i++ {
		day := today.AddDate(0, 0, -i)
		if _, err := j.reports.DayBook(ctx, day, day); err != nil {
			j.logger.Warn("daybook warmup failed",
				slog.Time("day", day), slog.Any("error", err))
			continue
		}
	}
	// also warm the running month window
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if _, err := j.reports.DayBook(ctx, monthStart, today); err != nil {
		j.logger.Warn("daybook month warmup failed", slog.Any("error", err))
	}
	j.logger.Info("daybook warmup finished", slog.Int("days", payload.Days))
	return nil
}
