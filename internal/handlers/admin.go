package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwes123/pitch-arsenal-go/internal/pipeline"
	"github.com/dwes123/pitch-arsenal-go/internal/store"
)

type Rebuilder interface {
	Start(ctx context.Context, withFetch bool) error
	Running() bool
}

// RebuildHandler starts a refresh in the background, or a build from the
// files on disk with ?fetch=false. The run outlives the request.
func RebuildHandler(ctx context.Context, runner Rebuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		withFetch := true
		if v := c.Query("fetch"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "fetch must be true or false"})
				return
			}
			withFetch = b
		}

		err := runner.Start(ctx, withFetch)
		if errors.Is(err, pipeline.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		kind := pipeline.KindRefresh
		if !withFetch {
			kind = pipeline.KindBuild
		}
		slog.Info("admin rebuild started", "kind", kind, "ip", c.ClientIP())
		c.JSON(http.StatusAccepted, gin.H{"status": "started", "kind": kind})
	}
}

// StatusHandler reports whether a run is in progress.
func StatusHandler(runner Rebuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"running": runner.Running()})
	}
}

// BuildsHandler lists recent runs from the database mirror. Without a
// database the list is empty.
func BuildsHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"builds": []store.BuildLog{}})
			return
		}

		limit := 20
		if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
			limit = v
		}
		builds, err := store.RecentBuilds(c.Request.Context(), db, limit)
		if err != nil {
			slog.Error("list builds failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load builds"})
			return
		}
		if builds == nil {
			builds = []store.BuildLog{}
		}
		c.JSON(http.StatusOK, gin.H{"builds": builds})
	}
}
