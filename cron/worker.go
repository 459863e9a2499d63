package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"consultly/config"
	requestRepo "consultly/database/repository/request"
	signalingRepo "consultly/database/repository/signaling"
	"consultly/models"
	"consultly/services/notification"
	"consultly/services/request"
	"consultly/services/storage"
	"consultly/services/tasks"
	"consultly/utils"
)

// WorkerDeps carries everything the background worker needs.
type WorkerDeps struct {
	Requests requestRepo.RequestRepository
	Rooms    signalingRepo.RoomRepository
	Storage  storage.StorageService
	Notify   notification.NotificationService
	Mailer   notification.Mailer
	MeetLink request.MeetLinkGenerator
}

// InitTaskWorker runs the async worker in background. It drains the follow-up
// and push queues, and runs the signaling room reaper alongside.
func InitTaskWorker(deps WorkerDeps) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRequestFollowUp, handleFollowUpTask(deps))
	mux.HandleFunc(tasks.TypePushSend, handlePushTask(deps.Notify))

	go monitorRedisConnection()
	go runRoomReaper(deps.Rooms)

	// Start async worker with retry logic.
	go func() {
		log.Println("[TaskWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[TaskWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[TaskWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleFollowUpTask runs the post-booking side effects: confirmation email,
// payment-proof upload, and meeting link for online bookings. Each step is
// independent; one failing does not skip the others, and the task is retried
// only when a step that can succeed later failed.
func handleFollowUpTask(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.RequestFollowUpPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[FollowUpHandler] Invalid payload: %v", err)
			return err
		}
		logger := utils.GetLogger().With(zap.String("requestId", p.RequestID))

		var retryErr error

		if deps.Mailer != nil && p.ClientEmail != "" {
			if err := deps.Mailer.SendRequestConfirmation(ctx, p.ClientEmail, p.ClientName, p.RequestID); err != nil {
				logger.Warn("follow-up: confirmation email failed", zap.Error(err))
				retryErr = err
			}
		}

		if len(p.PaymentProof) > 0 {
			url, err := deps.Storage.UploadBytes(ctx, p.PaymentProof, "payment-proofs", p.RequestID)
			if err != nil {
				logger.Warn("follow-up: payment proof upload failed", zap.Error(err))
				retryErr = err
			} else if err := deps.Requests.SetPaymentProofURL(ctx, p.RequestID, url); err != nil {
				logger.Warn("follow-up: failed to store proof url", zap.Error(err))
				retryErr = err
			}
		}

		if p.MeetingMode == models.MeetingOnline {
			req, err := deps.Requests.GetByID(ctx, p.RequestID)
			if err != nil {
				logger.Warn("follow-up: failed to load request", zap.Error(err))
				return err
			}
			if req.MeetingURL == "" {
				link := deps.MeetLink.NewMeetingLink(p.RequestID)
				if err := deps.Requests.SetMeetingURL(ctx, p.RequestID, link); err != nil {
					logger.Warn("follow-up: failed to store meeting url", zap.Error(err))
					retryErr = err
				}
			}
		}

		return retryErr
	}
}

func handlePushTask(notify notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PushHandler] Invalid payload: %v", err)
			return err
		}
		return notify.SendPushToRole(ctx, p.Role, p.Title, p.Body, p.Data)
	}
}

// runRoomReaper periodically deletes signaling rooms past their TTL, plus
// ended rooms past the grace window. Leftover rooms otherwise poison the next
// call on the same room id.
func runRoomReaper(rooms signalingRepo.RoomRepository) {
	ttl := time.Duration(config.AppConfig.RoomTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	grace := time.Duration(config.AppConfig.RoomEndedGraceMinutes) * time.Minute
	if grace <= 0 {
		grace = 30 * time.Minute
	}

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now().UTC()
		deleted, err := rooms.DeleteStale(context.Background(), now.Add(-ttl).Unix(), now.Add(-grace).Unix())
		if err != nil {
			utils.GetLogger().Warn("room reaper failed", zap.Error(err))
			continue
		}
		if deleted > 0 {
			utils.GetLogger().Info("room reaper swept stale rooms", zap.Int64("deleted", deleted))
		}
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[TaskWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
