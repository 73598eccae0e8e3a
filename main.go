package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livebooking/config"
	"livebooking/cron"
	"livebooking/database"
	"livebooking/database/repository"
	bookingRepo "livebooking/database/repository/booking"
	providerRepo "livebooking/database/repository/provider"
	venueRepo "livebooking/database/repository/venue"
	"livebooking/handlers"
	"livebooking/middleware"
	"livebooking/routes"
	"livebooking/services/booking"
	"livebooking/services/notification"
	"livebooking/services/tasks"
	"livebooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	utils.InitCache()
	db := database.Database()

	// repositories.
	provRepo := providerRepo.NewMongoProviderRepo(db)
	venues := venueRepo.NewCachedVenueRepo(
		venueRepo.NewMongoVenueRepo(db),
		utils.GetCacheClient(),
		config.AppConfig.VenueCacheTTL(),
		logger.Named("venue-cache"),
	)
	store := repository.NewStore(bookingRepo.NewMongoBookingRepo(db), provRepo, venues)

	indexCtx, cancelIndexes := context.WithTimeout(rootCtx, 30*time.Second)
	if err := store.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal("main: failed to ensure indexes", zap.Error(err))
	}
	cancelIndexes()

	queueOpt := utils.QueueRedisOpt()
	queueClient := asynq.NewClient(queueOpt)
	defer queueClient.Close()

	// notifications.
	var push booking.Notifier
	if config.AppConfig.FirebaseCredentialsFile != "" {
		utils.FirebaseInit()
		pn, err := notification.NewPushNotifier(utils.FCMClient, provRepo, venues, config.AppConfig.AdminAlertTopic, logger.Named("push"))
		if err != nil {
			logger.Fatal("main: failed to initialize push notifier", zap.Error(err))
		}
		push = pn
	} else {
		logger.Warn("main: FIREBASE_CREDENTIALS_FILE not set, notifications will only be logged")
		push = notification.NewLogNotifier(logger.Named("notifications"))
	}

	var notifier booking.Notifier
	switch config.AppConfig.NotificationBackend {
	case "queue":
		notifier = notification.NewQueuedNotifier(queueClient, logger)
	case "log":
		notifier = notification.NewLogNotifier(logger.Named("notifications"))
	default:
		notifier = push
	}

	// orchestrator.
	opts := []booking.Option{
		booking.WithLogger(logger.Named("orchestrator")),
		booking.WithPolicy(booking.PolicyFromConfig(config.AppConfig)),
	}
	var queueScheduler *tasks.QueueScheduler
	if config.AppConfig.DeadlineBackend == "queue" {
		inspector := asynq.NewInspector(queueOpt)
		defer inspector.Close()
		queueScheduler = tasks.NewQueueScheduler(queueClient, inspector, logger.Named("deadlines"))
		opts = append(opts, booking.WithDeadlineScheduler(queueScheduler))
	}
	orchestrator, err := booking.NewBookingOrchestrator(store, notifier, opts...)
	if err != nil {
		logger.Fatal("main: failed to initialize booking orchestrator", zap.Error(err))
	}

	if queueScheduler == nil {
		if _, err := orchestrator.ResumeDeadlines(rootCtx); err != nil {
			logger.Error("main: failed to resume deadlines", zap.Error(err))
		}
	}

	workerDeps := cron.WorkerDeps{
		RedisOpt:  queueOpt,
		Deliverer: push,
		Logger:    logger.Named("worker"),
	}
	if queueScheduler != nil {
		workerDeps.Timeouts = orchestrator
		workerDeps.Releaser = queueScheduler
	}
	worker := cron.InitWorker(rootCtx, workerDeps)

	utils.StartHealthMonitor(rootCtx,
		[]*redis.Client{utils.GetCacheClient(), utils.NewQueueMonitorClient()},
		database.MongoClient,
		30*time.Second,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(orchestrator))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
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
	worker.Shutdown()
	if reg, ok := orchestrator.Deadlines().(*booking.TimerRegistry); ok {
		reg.Stop()
	}
	stop()
	if err := database.Disconnect(ctx); err != nil {
		logger.Error("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
