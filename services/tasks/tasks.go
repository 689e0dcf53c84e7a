package tasks

import (
	"encoding/json"
	"time"

	"bcplughub/models"

	"github.com/hibiken/asynq"
)

const (
	TypeNotificationPush = "notification:push"
	TypeEventsArchive    = "events:archive"
	TypeRatingsFinalize  = "ratings:finalize"
)

// Queues and their priorities on the worker.
const (
	QueueCritical    = "critical"
	QueueDefault     = "default"
	QueueMaintenance = "maintenance"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewPushTask wraps a push delivery for the worker.
func NewPushTask(payload models.PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationPush, b)
	opts := []asynq.Option{
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// ParsePushPayload decodes a push task body.
func ParsePushPayload(task *asynq.Task) (models.PushPayload, error) {
	var p models.PushPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}

// NewArchiveTask moves every started event to the historical collection.
func NewArchiveTask() *asynq.Task {
	return asynq.NewTask(TypeEventsArchive, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(1))
}

// NewFinalizeTask finalises ratings whose window has closed.
func NewFinalizeTask() *asynq.Task {
	return asynq.NewTask(TypeRatingsFinalize, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(1))
}
