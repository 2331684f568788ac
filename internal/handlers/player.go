package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwes123/pitch-arsenal-go/internal/mlbapi"
	"github.com/dwes123/pitch-arsenal-go/internal/names"
)

type PersonGetter interface {
	Person(ctx context.Context, id int) (*mlbapi.Person, error)
}

// PlayerHandler proxies a player's bio from the MLB stats API.
func PlayerHandler(api PersonGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := names.ParseID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player id must be a positive integer"})
			return
		}

		person, err := api.Person(c.Request.Context(), id)
		if errors.Is(err, mlbapi.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			slog.Error("player proxy failed", "id", id, "err", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
			return
		}

		c.Header("Cache-Control", "public, max-age=3600")
		c.JSON(http.StatusOK, person)
	}
}
