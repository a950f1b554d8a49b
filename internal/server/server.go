// Package server assembles the gin engine: middleware chain, route
// table and the monitoring endpoints.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fq962/atom-challenge-api/internal/config"
	"github.com/fq962/atom-challenge-api/internal/handlers"
	"github.com/fq962/atom-challenge-api/internal/middleware"
	"github.com/fq962/atom-challenge-api/internal/monitoring"
	"github.com/fq962/atom-challenge-api/internal/response"
	"github.com/fq962/atom-challenge-api/internal/services"
	"github.com/fq962/atom-challenge-api/internal/token"
)

// Dependencies carries everything the router needs; main wires the
// concrete implementations, tests substitute mocks.
type Dependencies struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Tokens  *token.Service
	Tasks   services.TaskService
	Users   services.UserService
	Redis   *redis.Client
	Metrics *monitoring.Metrics
	Health  *monitoring.HealthChecker
}

// NewRouter builds the engine. Middleware order matters: logging and
// recovery wrap everything, CORS and rate limiting run before any
// route logic.
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.RecoveryWithLog(deps.Logger, cfg.IsProduction()))
	router.Use(corsMiddleware(cfg.CORS))
	router.Use(middleware.RateLimit(cfg.RateLimit, deps.Redis))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}

	taskHandler := handlers.NewTaskHandler(deps.Tasks, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Logger)

	api := router.Group("/api")

	tasks := api.Group("/tasks", middleware.RequireAuth(deps.Tokens))
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.PATCH("", taskHandler.UpdateTask)
	tasks.DELETE("", taskHandler.DeleteTask)

	users := api.Group("/users")
	users.GET("/me", middleware.RequireAuth(deps.Tokens), userHandler.CurrentUser)
	users.GET("/:mail", userHandler.FindByMail)
	users.POST("", userHandler.CreateUser)

	if deps.Health != nil && deps.Metrics != nil {
		api.GET("/health", deps.Health.Handler(deps.Metrics))
		api.GET("/metrics", deps.Metrics.Handler())
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.RouteNotFound(c.Request.URL.Path))
	})

	return router
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}

	return cors.New(corsConfig)
}
