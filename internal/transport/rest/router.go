package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"advisor/internal/service"
	"advisor/internal/transport/rest/handler"
	"advisor/internal/transport/rest/middleware"
	"advisor/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	AdvisorService *service.AdvisorService
	OutlineService *service.OutlineService
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.AdvisorService)
	outlineHandler := handler.NewOutlineHandler(c.OutlineService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/import", sessionHandler.ImportNew).Methods("POST", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require session auth)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/messages", sessionHandler.Message).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/topic", sessionHandler.SetTopic).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/company", sessionHandler.Hydrate).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/next", sessionHandler.Next).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/preview", sessionHandler.Preview).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/export", sessionHandler.Export).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{sessionId}/import", sessionHandler.Import).Methods("POST", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/outlines", outlineHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/outlines", outlineHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/outlines/{outlineId}", outlineHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/outlines/{outlineId}", outlineHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/outlines/{outlineId}", outlineHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
