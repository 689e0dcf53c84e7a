package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bcplughub/config"
	"bcplughub/cron"
	"bcplughub/database"
	"bcplughub/database/repository"
	"bcplughub/handlers"
	"bcplughub/middleware"
	"bcplughub/routes"
	"bcplughub/services/campusmap"
	"bcplughub/services/event"
	ai "bcplughub/services/intelligence"
	"bcplughub/services/invite"
	"bcplughub/services/notification"
	"bcplughub/services/storage"
	"bcplughub/services/user"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const insightCacheTTL = 2 * time.Minute

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	campus := config.CampusLocation()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, []*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// repositories.
	repos := repository.NewMongoRepositories(database.Database())

	// queue client for push delivery.
	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:  repos.Notifications,
		Users: repos.Users,
		Queue: queue,
	}
	if utils.FCMClient != nil {
		notificationService.Push = utils.FCMClient
	}

	var llm ai.TextGenerator
	gemini, err := ai.NewGeminiClient(rootCtx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Warn("main: Gemini unavailable, using fallback text", zap.Error(err))
	} else {
		llm = gemini
		defer gemini.Close()
	}
	insightCache := ai.NewRedisRecommendationCache(utils.GetCacheClient(), insightCacheTTL)
	aiService := ai.NewDefaultAIService(llm, insightCache, repos.Events, campus)

	userService := &user.DefaultUserService{
		Repo:        repos.Users,
		Aliases:     aiService,
		Sessions:    utils.GetAuthCacheClient(),
		EmailDomain: config.AppConfig.InstitutionEmailDomain,
		TokenTTL:    config.AppConfig.TokenTTL,
	}

	eventService := &event.DefaultEventService{
		Events:     repos.Events,
		Historical: repos.Historical,
		Users:      repos.Users,
		Notifier:   notificationService,
		Location:   campus,
	}

	mapService := &campusmap.Service{Events: repos.Events}

	store, err := storage.NewFromConfig(rootCtx)
	if err != nil {
		logger.Warn("main: storage backend unavailable, returning inline images", zap.Error(err))
		store = storage.DataURLStorage{}
	}
	inviteService := &invite.Service{Storage: store, Location: campus}

	// background worker and scheduler.
	worker := cron.NewWorker(notificationService, eventService)
	if err := worker.Start(rootCtx); err != nil {
		logger.Error("main: background worker not started", zap.Error(err))
		worker = nil
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      repos.Users,
		AuthCache:     utils.GetAuthCacheClient(),
		AuthRequired:  config.AppConfig.AuthRequired,
		Users:         handlers.NewUserHandler(userService, eventService, notificationService),
		Events:        handlers.NewEventHandler(eventService),
		Notifications: handlers.NewNotificationHandler(notificationService, eventService),
		AI:            handlers.NewAIHandler(aiService),
		Map:           handlers.NewMapHandler(mapService),
		Invites:       handlers.NewInviteHandler(inviteService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", config.GetEnv()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	stop()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
