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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/fkhayef/yatube/docs"
	"github.com/fkhayef/yatube/internal/auth"
	"github.com/fkhayef/yatube/internal/config"
	"github.com/fkhayef/yatube/internal/database"
	"github.com/fkhayef/yatube/internal/group"
	"github.com/fkhayef/yatube/internal/logger"
	"github.com/fkhayef/yatube/internal/metrics"
	"github.com/fkhayef/yatube/internal/post"
	"github.com/fkhayef/yatube/internal/user"
	mw "github.com/fkhayef/yatube/pkg/middleware"
	"github.com/fkhayef/yatube/pkg/response"
)

// @title                       Yatube API
// @version                     1.0
// @description                 Blog posts filed under groups, browsable by feed, group and author.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	zlog.Info("connected to database")

	if cfg.RunMigrations {
		if err := database.Migrate(db, "up"); err != nil {
			zlog.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	collector := metrics.NewCollector("yatube")

	// Identity
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.IsProduction())
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, sessions, tokens, zlog)
	provider := auth.NewProvider(sessions, tokens, userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService, zlog)

	// Post feature
	postRepo := post.NewRepository(db)
	postService := post.NewService(postRepo, collector)
	postViews := post.NewViews(postService, groupService, userService, cfg.LoginURL)
	postHandler := post.NewHandler(postViews, zlog)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Logger(zlog))
	r.Use(collector.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Authenticate(provider, zlog))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Page not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", collector.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Mount feature routers
	r.Mount("/auth", userHandler.Routes())
	r.Mount("/groups", groupHandler.Routes())
	r.Mount("/", postHandler.Routes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
