package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	authUsecase "ingetin-backend/internal/auth/usecase"
	notificationDelivery "ingetin-backend/internal/notification/delivery"
	notificationUsecase "ingetin-backend/internal/notification/usecase"
	taskDelivery "ingetin-backend/internal/task/delivery"
	taskUsecase "ingetin-backend/internal/task/usecase"
	"ingetin-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase         authUsecase.AuthUsecase
	config              *config.Config
	taskHandler         *taskDelivery.TaskHandler
	notificationHandler *notificationDelivery.NotificationHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, taskUc taskUsecase.TaskUsecase, notificationUc notificationUsecase.NotificationUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:         authUc,
		config:              cfg,
		taskHandler:         taskDelivery.NewTaskHandler(taskUc),
		notificationHandler: notificationDelivery.NewNotificationHandler(notificationUc),
	}
}

// Router builds the gin engine with middleware and every route mounted
func (h *Handler) Router() *gin.Engine {
	if !h.config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(h.recover))
	r.Use(h.cors())

	SetupRoutes(r, h.authUsecase, h.taskHandler, h.notificationHandler)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (h *Handler) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && origin == h.config.FrontendURL {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) recover(c *gin.Context, recovered any) {
	log.Printf("[API] Panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)

	body := gin.H{
		"success": false,
		"message": "Internal server error",
	}
	if h.config.IsDevelopment() {
		body["error"] = fmt.Sprint(recovered)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
