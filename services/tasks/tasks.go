// File: services/tasks/tasks.go
package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"consultly/models"
)

// Task type names handled by the worker in cron/worker.go.
const (
	TypeRequestFollowUp = "request:followup"
	TypePushSend        = "push:send"
)

// NewRequestFollowUpTask builds the post-booking side-effect task.
func NewRequestFollowUpTask(payload models.RequestFollowUpPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRequestFollowUp, b), nil
}

// NewPushTask builds an FCM push task.
func NewPushTask(payload models.PushPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePushSend, b), nil
}

// Enqueuer submits tasks to the asynq queue. It satisfies
// request.TaskEnqueuer and chat's push scheduling.
type Enqueuer struct {
	Client *asynq.Client
}

func (e *Enqueuer) EnqueueFollowUp(payload models.RequestFollowUpPayload) error {
	task, err := NewRequestFollowUpTask(payload)
	if err != nil {
		return err
	}
	_, err = e.Client.Enqueue(task, asynq.MaxRetry(5))
	return err
}

func (e *Enqueuer) EnqueuePush(payload models.PushPayload) error {
	task, err := NewPushTask(payload)
	if err != nil {
		return err
	}
	_, err = e.Client.Enqueue(task, asynq.MaxRetry(3))
	return err
}
