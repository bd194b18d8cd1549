package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	api "ingetin-backend/cmd/api"
	authRepo "ingetin-backend/internal/auth/repository"
	authUsecase "ingetin-backend/internal/auth/usecase"
	notificationRepo "ingetin-backend/internal/notification/repository"
	"ingetin-backend/internal/notification/scheduler"
	notificationUsecase "ingetin-backend/internal/notification/usecase"
	taskRepo "ingetin-backend/internal/task/repository"
	taskUsecase "ingetin-backend/internal/task/usecase"
	"ingetin-backend/pkg/config"
	"ingetin-backend/pkg/database"
	"ingetin-backend/pkg/fcm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	loc := cfg.Location()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	var models []interface{}
	models = append(models, authRepo.Models()...)
	models = append(models, taskRepo.Models()...)
	models = append(models, notificationRepo.Models()...)
	if err := database.Migrate(db, models...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	deliveryRepo := notificationRepo.NewDeliveryRepository(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository, loc)
	notificationUsecaseInstance := notificationUsecase.NewNotificationUsecase(taskRepository, loc)

	// Reminder pushes are optional; the feed works without Firebase
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push reminders disabled): %v", err)
		} else {
			reminders := scheduler.NewReminderScheduler(taskRepository, userRepo, fcmTokenRepo, deliveryRepo, fcmClient, loc)
			if err := reminders.Start(cfg.ReminderSchedule); err != nil {
				log.Fatal("Failed to start reminder scheduler:", err)
			}
			defer reminders.Stop()
		}
	} else {
		log.Printf("[WARN] FIREBASE_CREDENTIALS not configured, push reminders disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, taskUsecaseInstance, notificationUsecaseInstance, cfg)

	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
