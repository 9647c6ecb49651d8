package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"advisor/internal/cache"
	"advisor/internal/config"
	"advisor/internal/repository"
	"advisor/internal/service"
	"advisor/internal/transport/rest"
	"advisor/internal/transport/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()

	// Log AI model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Reply:   %s", aiConfig.Models.Reply)
	log.Printf("  Summary: %s", aiConfig.Models.Summary)
	if aiConfig.IsEnabled() {
		log.Println("  API Key: configured")
	} else {
		log.Println("  API Key: NOT SET (replies use deterministic text)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepo(mongoClient, cfg.MongoDB)
	outlineRepo := repository.NewOutlineRepo(mongoClient, cfg.MongoDB)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	updateLock := cache.NewUpdateLock(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	assistant := service.NewAssistantService()
	sessionSvc := service.NewSessionService(sessionRepo, outlineRepo, sessionCache, authSvc)
	outlineSvc := service.NewOutlineService(outlineRepo)
	advisorSvc := service.NewAdvisorService(sessionRepo, sessionCache, updateLock, assistant)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	advisorSvc.SetBroadcaster(wsHub)
	sessionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		AdvisorService: advisorSvc,
		OutlineService: outlineSvc,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/messages")
		log.Println("  GET  /v1/sessions/{id}/preview")
		log.Println("  GET  /v1/sessions/{id}/export")
		log.Println("  POST /v1/sessions/{id}/import")
		log.Println("  POST/GET /v1/outlines")
		log.Println("  WS  /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
