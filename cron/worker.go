package cron

import (
	"context"
	"fmt"
	"time"

	"bcplughub/config"
	"bcplughub/services/event"
	"bcplughub/services/notification"
	"bcplughub/services/tasks"
	"bcplughub/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection for the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Worker runs queued push deliveries and the periodic maintenance jobs.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewWorker wires task handlers to the notification and event services.
func NewWorker(notifSvc notification.NotificationService, eventSvc event.EventService) *Worker {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueCritical:    6,
				tasks.QueueDefault:     3,
				tasks.QueueMaintenance: 1,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.WarnLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationPush, HandlePushTask(notifSvc))
	mux.HandleFunc(tasks.TypeEventsArchive, HandleArchiveTask(eventSvc))
	mux.HandleFunc(tasks.TypeRatingsFinalize, HandleFinalizeTask(eventSvc))

	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{
		Location: config.CampusLocation(),
		Logger:   logger.Sugar(),
		LogLevel: asynq.WarnLevel,
	})

	return &Worker{server: srv, scheduler: scheduler, mux: mux}
}

func every(d time.Duration) string {
	return fmt.Sprintf("@every %s", d)
}

// Start registers the periodic jobs and starts processing in the background.
func (w *Worker) Start(ctx context.Context) error {
	logger := utils.GetLogger()
	if _, err := w.scheduler.Register(every(config.AppConfig.ArchiveInterval), tasks.NewArchiveTask()); err != nil {
		return fmt.Errorf("failed to schedule archive job: %w", err)
	}
	if _, err := w.scheduler.Register(every(config.AppConfig.FinalizeInterval), tasks.NewFinalizeTask()); err != nil {
		return fmt.Errorf("failed to schedule finalize job: %w", err)
	}

	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	if err := w.server.Start(w.mux); err != nil {
		w.scheduler.Shutdown()
		return fmt.Errorf("failed to start worker: %w", err)
	}

	go monitorRedisConnection(ctx)
	logger.Info("Background worker started",
		zap.Duration("archiveInterval", config.AppConfig.ArchiveInterval),
		zap.Duration("finalizeInterval", config.AppConfig.FinalizeInterval))
	return nil
}

// Shutdown stops the scheduler and waits for in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// HandlePushTask delivers one queued push notification.
func HandlePushTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePushPayload(task)
		if err != nil {
			utils.GetLogger().Error("invalid push payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := notifSvc.SendUserPushNotification(ctx, p.UserID, p.Title, p.Body, p.Data); err != nil {
			utils.GetLogger().Warn("push delivery failed",
				zap.String("userID", p.UserID), zap.String("notificationID", p.NotificationID), zap.Error(err))
			return err
		}
		return nil
	}
}

func HandleArchiveTask(eventSvc event.EventService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		result, err := eventSvc.ArchivePastEvents(ctx)
		if err != nil {
			return err
		}
		utils.GetLogger().Debug("archive run finished", zap.Int("eventsMoved", result.EventsMoved))
		return nil
	}
}

func HandleFinalizeTask(eventSvc event.EventService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := eventSvc.FinalizeDueRatings(ctx)
		if err != nil {
			return err
		}
		utils.GetLogger().Debug("finalize run finished", zap.Int("finalized", n))
		return nil
	}
}

// monitorRedisConnection pings the queue database to surface outages in the logs.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("queue redis unreachable", zap.Error(err))
			}
		}
	}
}
