package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mirasur/agenda-service/internal/adapters/handler"
	"github.com/mirasur/agenda-service/internal/adapters/middleware"
	"github.com/mirasur/agenda-service/internal/adapters/redisstore"
	"github.com/mirasur/agenda-service/internal/adapters/repository"
	"github.com/mirasur/agenda-service/internal/config"
	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	identityStore := repository.NewIdentityStore(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	changeBus := redisstore.NewChangeBus(redisClient)
	blacklist := redisstore.NewTokenBlacklist(redisClient)
	limiter := redisstore.NewLoginLimiter(redisClient)

	authService := services.NewAuthService(identityStore, userRepo, blacklist, limiter, cfg.JWTPrivateKey)
	registrationService := services.NewRegistrationService(identityStore, userRepo)
	sessionService := services.NewSessionService(userRepo, changeBus)
	reportService := services.NewReportService(reportRepo, changeBus)
	chatService := services.NewChatService(messageRepo, changeBus)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, blacklist)

	authHandler := handler.NewAuthHandler(authService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	reportHandler := handler.NewReportHandler(reportService)
	chatHandler := handler.NewChatHandler(chatService, sessionService)
	rosterHandler := handler.NewRosterHandler(userRepo)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	anyRole := []domain.Role{domain.RoleParent, domain.RoleTeacher, domain.RoleAdmin}
	staff := []domain.Role{domain.RoleTeacher, domain.RoleAdmin}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Session and credentials
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", authMiddleware.Authenticate(authHandler.Logout))
	mux.HandleFunc("GET /session", authMiddleware.Authenticate(sessionHandler.Get))
	mux.HandleFunc("GET /session/stream", authMiddleware.Authenticate(sessionHandler.Stream))
	mux.HandleFunc("POST /register", authMiddleware.RequireRole(staff, registrationHandler.Register))

	// Teacher dashboard roster
	mux.HandleFunc("GET /parents", authMiddleware.RequireRole(staff, rosterHandler.ListParents))

	// Daily reports: parents read their own, teachers read and write any
	mux.HandleFunc("GET /students/{studentID}/reports/{date}", authMiddleware.RequireRole(anyRole, reportHandler.Get))
	mux.HandleFunc("PUT /students/{studentID}/reports/{date}", authMiddleware.RequireRole(staff, reportHandler.Save))

	// Chat: the {parentID} segment is the conversation key for teachers,
	// parents always resolve to their own
	mux.HandleFunc("GET /chats/{parentID}/messages", authMiddleware.Authenticate(chatHandler.History))
	mux.HandleFunc("POST /chats/{parentID}/messages", authMiddleware.Authenticate(chatHandler.Send))
	mux.HandleFunc("GET /chats/{parentID}/stream", authMiddleware.Authenticate(chatHandler.Stream))

	var root http.Handler = middleware.Metrics(mux)
	root = middleware.CORSMiddleware(cfg.AllowedOrigins)(root)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, root); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
