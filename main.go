package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"consultly/config"
	"consultly/cron"
	"consultly/database"
	availabilityRepo "consultly/database/repository/availability"
	chatRepo "consultly/database/repository/chat"
	deviceRepo "consultly/database/repository/device"
	requestRepo "consultly/database/repository/request"
	signalingRepo "consultly/database/repository/signaling"
	"consultly/handlers"
	"consultly/routes"
	"consultly/services/availability"
	"consultly/services/chat"
	"consultly/services/notification"
	"consultly/services/request"
	"consultly/services/signaling"
	"consultly/services/storage"
	"consultly/services/tasks"
	"consultly/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	if err := availabilityRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure availability indexes: %v", err)
	}
	if err := requestRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure request indexes: %v", err)
	}

	storageService, err := storage.NewStorageService(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	reqRepo := requestRepo.NewMongoRequestRepo()
	roomRepo := signalingRepo.NewMongoRoomRepo()
	chatsRepo := chatRepo.NewMongoChatRepo()
	devicesRepo := deviceRepo.NewMongoDeviceRepo()

	// background task queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	defer asynqClient.Close()
	enqueuer := &tasks.Enqueuer{Client: asynqClient}

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Availability: availRepo,
		Requests:     reqRepo,
	}
	requestService := &request.DefaultRequestService{
		Requests: reqRepo,
		Tasks:    enqueuer,
	}
	roomService := &signaling.DefaultRoomService{
		Rooms: roomRepo,
	}
	chatService := &chat.DefaultChatService{
		Chats: chatsRepo,
		Tasks: enqueuer,
	}

	notificationService, err := notification.NewDefaultNotificationService(utils.FCMClient, devicesRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	// background worker: follow-up tasks, pushes and the room reaper.
	cron.InitTaskWorker(cron.WorkerDeps{
		Requests: reqRepo,
		Rooms:    roomRepo,
		Storage:  storageService,
		Notify:   notificationService,
		Mailer:   notification.LogMailer{},
		MeetLink: &request.URLMeetLinkGenerator{BaseURL: config.AppConfig.MeetBaseURL},
	})

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: &handlers.AvailabilityHandler{Service: availabilityService},
		Requests:     &handlers.RequestHandler{Service: requestService},
		Chat:         &handlers.ChatHandler{Service: chatService},
		Signaling:    handlers.NewSignalingHandler(roomService),
		Devices:      &handlers.DeviceHandler{Devices: devicesRepo},
		Admin:        &handlers.AdminHandler{AuthCache: utils.GetAuthCacheClient()},
		AuthCache:    utils.GetAuthCacheClient(),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
