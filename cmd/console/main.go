package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nayeem09864/exam-management-system/internal/config"
	"github.com/Nayeem09864/exam-management-system/internal/domain/repository"
	"github.com/Nayeem09864/exam-management-system/internal/handler"
	"github.com/Nayeem09864/exam-management-system/internal/middleware"
	pgRepo "github.com/Nayeem09864/exam-management-system/internal/repository/postgres"
	redisRepo "github.com/Nayeem09864/exam-management-system/internal/repository/redis"
	"github.com/Nayeem09864/exam-management-system/internal/repository/restapi"
	"github.com/Nayeem09864/exam-management-system/internal/service"
	"github.com/Nayeem09864/exam-management-system/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}
	sessionRepo, err := redisRepo.NewSessionRepo(cacheRepo, cfg.Session.KeyPrefix)
	if err != nil {
		log.Printf("Failed to initialize SessionRepo: %v", err)
		os.Exit(1)
	}

	backend := restapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout())
	authRepo := restapi.NewAuthRepo(backend)
	dashboardRepo := restapi.NewDashboardRepo(backend)

	var questionRepo repository.QuestionRepository
	switch cfg.Backend.Mode {
	case config.BackendModePostgres:
		db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), gin.Mode() != gin.ReleaseMode)
		if err != nil {
			log.Printf("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		if err := database.CheckQuestionSchema(db); err != nil {
			log.Printf("Database schema check failed: %v", err)
			os.Exit(1)
		}
		questionRepo = pgRepo.NewQuestionRepo(db)
		log.Println("Вопросы читаются напрямую из PostgreSQL бэкенда")
	default:
		questionRepo = restapi.NewQuestionRepo(backend)
		log.Printf("Вопросы читаются через REST API %s", cfg.Backend.BaseURL)
	}

	authService := service.NewAuthService(authRepo, sessionRepo, cfg.Session.SessionTTL())
	questionService := service.NewQuestionService(questionRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)
	editorService := service.NewEditorService(questionRepo, cfg.Forms.IdleTTL())

	// Очистка брошенных форм до остановки сервера
	go editorService.Run(ctx, cfg.Forms.SweepInterval)

	rateLimiter := middleware.NewRateLimiter(redisClient)
	loginLimit := rateLimiter.Limit(middleware.LoginRateLimitConfig(
		cfg.RateLimit.LoginMaxRequests,
		time.Duration(cfg.RateLimit.LoginWindowSec)*time.Second,
	))

	routes := &handler.Routes{
		Auth:       handler.NewAuthHandler(authService, handler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Questions:  handler.NewQuestionHandler(questionService),
		Forms:      handler.NewFormHandler(editorService),
		Sessions:   middleware.NewSessionMiddleware(authService, cfg.Session.CookieName),
		LoginLimit: loginLimit,
	}

	isProduction := gin.Mode() == gin.ReleaseMode
	router := gin.Default()

	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting admin console on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Printf("Server exited properly (open forms dropped: %d)", editorService.Count())
}
