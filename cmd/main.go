package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nextclass/nextclass-backend/internal/clients/redis"
	"github.com/nextclass/nextclass-backend/internal/db"
	"github.com/nextclass/nextclass-backend/internal/handlers"
	"github.com/nextclass/nextclass-backend/internal/jobs"
	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/middleware"
	"github.com/nextclass/nextclass-backend/internal/observability"
	"github.com/nextclass/nextclass-backend/internal/prompts"
	"github.com/nextclass/nextclass-backend/internal/repos"
	"github.com/nextclass/nextclass-backend/internal/server"
	"github.com/nextclass/nextclass-backend/internal/services"
	"github.com/nextclass/nextclass-backend/internal/sse"
	"github.com/nextclass/nextclass-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	jobTimeout := utils.GetEnvAsInt("JOB_TIMEOUT_SECONDS", 90, log)
	pollInterval := utils.GetEnvAsInt("JOB_POLL_INTERVAL_MS", 1000, log)
	stylePath := utils.GetEnv("PROMPT_STYLE_PATH", "", log)
	corsOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "nextclass-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	jobRepo := repos.NewJobRepo(thePG, log)
	lectureRepo := repos.NewLectureRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	flashcardRepo := repos.NewFlashcardSetRepo(thePG, log)
	lessonPlanRepo := repos.NewLessonPlanRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewHub(log)
	var bus redis.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		bus, err = redis.NewBus(log)
		if err != nil {
			log.Error("Could not init redis bus", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		bus.StartForwarder(ctx, sseHub.Publish)
	}

	// Services
	log.Info("Setting up Services from main...")
	style, err := prompts.LoadStyle(stylePath)
	if err != nil {
		log.Warn("Could not load prompt style, using defaults", "error", err)
	}
	completionClient, err := services.NewCompletionClient(log)
	if err != nil {
		log.Error("Could not init CompletionClient", "error", err)
		os.Exit(1)
	}
	notifier := services.NewJobNotifier(log, sseHub, bus)
	jobService := services.NewJobService(
		thePG,
		log,
		jobRepo,
		lectureRepo,
		quizRepo,
		flashcardRepo,
		lessonPlanRepo,
		activityRepo,
		completionClient,
		notifier,
		style,
		time.Duration(jobTimeout)*time.Second,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	jobsHandler := handlers.NewJobsHandler(jobService)
	dispatchHandler := handlers.NewDispatchHandler(jobService)
	sseHandler := handlers.NewSSEHandler(sseHub)
	maintenanceHandler := handlers.NewMaintenanceHandler()

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:        "nextclass-backend",
		AllowedOrigins:     server.SplitOrigins(corsOrigins),
		AuthMiddleware:     authMiddleware,
		JobsHandler:        jobsHandler,
		DispatchHandler:    dispatchHandler,
		SSEHandler:         sseHandler,
		MaintenanceHandler: maintenanceHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}
	worker := jobs.NewWorker(log, jobRepo, jobService, time.Duration(pollInterval)*time.Millisecond)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := worker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
	}
	if otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}
}
