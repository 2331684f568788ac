package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/handlers"
	"github.com/dwes123/pitch-arsenal-go/internal/middleware"
)

type deps struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	runner handlers.Rebuilder
	people handlers.PersonGetter
	// ctx bounds background rebuilds started from the admin endpoint.
	ctx context.Context
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.SecurityHeaders())

	if d.cfg.Server.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  []string{d.cfg.Server.CORSOrigin},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	outDir := d.cfg.OutDir

	// --- PUBLIC PAGES AND DATA ---
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/dashboard")
	})
	r.GET("/dashboard", handlers.DashboardHandler(outDir))
	r.GET("/data/index.json", handlers.IndexHandler(outDir))
	r.GET("/data/pitchers/:key", handlers.PitcherHandler(outDir))

	// --- API ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.RateLimit(60, time.Minute))
	{
		api.GET("/player/:id", handlers.PlayerHandler(d.people))
		api.GET("/pitchers", handlers.PitchersHandler(d.pool, outDir))
		api.GET("/builds", handlers.BuildsHandler(d.pool))
		api.GET("/status", handlers.StatusHandler(d.runner))
	}

	// --- ADMIN ROUTES ---
	admin := r.Group("/admin")
	admin.Use(middleware.RateLimit(10, time.Minute), middleware.AdminToken(d.cfg.Server.AdminTokenHash))
	{
		admin.POST("/rebuild", handlers.RebuildHandler(d.ctx, d.runner))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return r
}
