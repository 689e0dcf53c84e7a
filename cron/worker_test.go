package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"bcplughub/models"
	"bcplughub/services/event"
	"bcplughub/services/notification"
	"bcplughub/services/tasks"
	"bcplughub/testutils"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPush struct {
	sent []*messaging.Message
}

func (p *recordingPush) Send(ctx context.Context, m *messaging.Message) (string, error) {
	p.sent = append(p.sent, m)
	return "ok", nil
}

func TestHandlePushTask(t *testing.T) {
	push := &recordingPush{}
	svc := &notification.DefaultNotificationService{
		Repo:  testutils.NewMemoryNotificationRepo(),
		Users: testutils.NewMemoryUserRepo(&models.User{ID: "u1", FCMToken: "device-1"}),
		Push:  push,
	}
	handler := HandlePushTask(svc)

	err := handler(context.Background(), asynq.NewTask(tasks.TypeNotificationPush, []byte("{not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	task, _, err := tasks.NewPushTask(models.PushPayload{UserID: "u1", Title: "Rate it", Body: "How was it?"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, push.sent, 1)
	assert.Equal(t, "device-1", push.sent[0].Token)
	assert.Equal(t, "Rate it", push.sent[0].Notification.Title)
}

func TestHandleArchiveAndFinalizeTasks(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	events := testutils.NewMemoryEventRepo(&models.Event{
		ID:              "e1",
		FunctionName:    "Mods Party",
		Date:            now.Add(-2 * time.Hour),
		OrganizerUserID: "org",
		Status:          models.StatusUpcoming,
	})
	historical := testutils.NewMemoryHistoricalRepo()
	users := testutils.NewMemoryUserRepo(&models.User{ID: "org", PersonalRating: 5})
	svc := &event.DefaultEventService{
		Events:     events,
		Historical: historical,
		Users:      users,
		Notifier:   &notification.DefaultNotificationService{Repo: testutils.NewMemoryNotificationRepo(), Users: users},
		Location:   time.UTC,
		Now:        func() time.Time { return now },
	}

	require.NoError(t, HandleArchiveTask(svc)(context.Background(), tasks.NewArchiveTask()))
	archived, err := historical.GetByOriginalID("e1")
	require.NoError(t, err)
	assert.Equal(t, "Mods Party", archived.FunctionName)

	require.NoError(t, HandleFinalizeTask(svc)(context.Background(), tasks.NewFinalizeTask()))
}
