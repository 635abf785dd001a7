// Package jobs carries the background workload: the nightly stock
// integrity scan and the day-book cache warmup. Tasks run on asynq with
// Redis as the broker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockIntegrity recomputes expected mill stock per product and
	// reports drift against the live balance.
	TaskStockIntegrity = "stock:integrity"
	// TaskDaybookWarmup pre-warms the sales day book cache.
	TaskDaybookWarmup = "report:daybook_warmup"
)

// StockIntegrityPayload configures one integrity scan run.
type StockIntegrityPayload struct {
	// Tolerance is the absolute kgs difference treated as clean.
	Tolerance float64 `json:"tolerance"`
}

// NewStockIntegrityTask constructs the integrity scan task.
func NewStockIntegrityTask(tolerance float64) (*asynq.Task, error) {
	data, err := json.Marshal(StockIntegrityPayload{Tolerance: tolerance})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockIntegrity, data), nil
}

// DaybookWarmupPayload configures a warmup run.
type DaybookWarmupPayload struct {
	// Days is how many trailing daily windows to warm, today included.
	Days int `json:"days"`
}

// NewDaybookWarmupTask constructs the warmup task.
func NewDaybookWarmupTask(days int) (*asynq.Task, error) {
	data, err := json.Marshal(DaybookWarmupPayload{Days: days})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDaybookWarmup, data), nil
}
