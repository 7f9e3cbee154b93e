package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/config"
	"github.com/stemsi/academic-tracker/internal/handler"
	"github.com/stemsi/academic-tracker/internal/metrics"
	"github.com/stemsi/academic-tracker/internal/middleware"
	"github.com/stemsi/academic-tracker/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	System *handler.SystemHandler
	Seed   *handler.SeedHandler
	Record *handler.RecordHandler
}

// SetupRouter configures middleware and routes.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	// ─── CORS ──────────────────────────────────────────────────────────
	// With no allow-list every origin is echoed back, which is what lets
	// credentialed requests from a separately hosted front-end through.
	// Methods and headers are echoed by PreflightEcho, so cors must not set
	// its own lists.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = nil
	corsConfig.AllowHeaders = nil
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, handler.HeaderStoreStatus}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(middleware.PreflightEcho())
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log, "/metrics", "/test"))
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		SkipPaths: []string{"/metrics"},
	}))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed)
	})

	// ─── Liveness / readiness ──────────────────────────────────────────
	router.GET("/", handlers.System.Root)
	router.GET("/test", handlers.System.Test)
	router.GET("/ready", handlers.System.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ─── Seed ──────────────────────────────────────────────────────────
	seed := router.Group("/seed")
	{
		seed.POST("/attendance", handlers.Seed.SeedAttendance)
		seed.POST("/marks", handlers.Seed.SeedMarks)
		seed.POST("/timetable", handlers.Seed.SeedTimetable)
		seed.POST("/user", handlers.Seed.SeedUser)
	}

	// ─── Records ───────────────────────────────────────────────────────
	records := router.Group("/")
	records.Use(middleware.NoStore())
	{
		records.GET("/attendance", handlers.Record.GetAttendance)
		records.GET("/marks", handlers.Record.GetMarks)
		records.GET("/timetable", handlers.Record.GetTimetable)
		records.GET("/user", handlers.Record.GetUser)
	}

	return router
}
