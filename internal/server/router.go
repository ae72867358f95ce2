package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/nextclass/nextclass-backend/internal/handlers"
	"github.com/nextclass/nextclass-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	AllowedOrigins     []string
	AuthMiddleware     *middleware.AuthMiddleware
	JobsHandler        *handlers.JobsHandler
	DispatchHandler    *handlers.DispatchHandler
	SSEHandler         *handlers.SSEHandler
	MaintenanceHandler *handlers.MaintenanceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Jobs
	api.GET("/jobs", cfg.JobsHandler.ListJobs)
	api.GET("/jobs/:id", cfg.JobsHandler.GetJobByID)
	api.POST("/jobs/run", cfg.JobsHandler.RunJob)
	// Generation dispatch
	api.POST("/lectures/:id/quiz", cfg.DispatchHandler.GenerateQuiz)
	api.POST("/lectures/:id/flashcards", cfg.DispatchHandler.GenerateFlashcards)
	api.POST("/lectures/:id/activities/multiple-choice", cfg.DispatchHandler.GenerateMultipleChoiceActivity)
	api.POST("/lectures/:id/activities/open-ended", cfg.DispatchHandler.GenerateOpenEndedActivity)
	api.POST("/lectures/:id/suggestions", cfg.DispatchHandler.GenerateSuggestions)
	api.POST("/lesson-plans", cfg.DispatchHandler.GenerateLessonPlan)
	// SSE
	api.GET("/sse/stream", cfg.SSEHandler.Stream)
	// Maintenance
	api.POST("/maintenance/sanitize", cfg.MaintenanceHandler.Sanitize)

	return router
}

// SplitOrigins turns the comma-separated CORS_ALLOWED_ORIGINS value into a
// clean slice.
func SplitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
