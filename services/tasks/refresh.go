package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeAvailabilityRefresh = "availability:refresh"

// RefreshPayload names the date whose availability snapshot should be
// rebuilt and cached.
type RefreshPayload struct {
	Date string `json:"date"`
}

func NewAvailabilityRefreshTask(payload RefreshPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAvailabilityRefresh, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
