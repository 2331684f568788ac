package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/output"
	"github.com/dwes123/pitch-arsenal-go/internal/store"
)

// IndexHandler serves the built index.json as is.
func IndexHandler(outDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		serveJSONFile(c, config.IndexFile(outDir), "no build available yet")
	}
}

// PitcherHandler serves one pitcher file. The ".json" suffix is optional
// so both /data/pitchers/669373 and /data/pitchers/669373.json work.
func PitcherHandler(outDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSuffix(c.Param("key"), ".json")
		path, err := output.PitcherPath(outDir, key)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pitcher key"})
			return
		}
		serveJSONFile(c, path, "pitcher not found")
	}
}

// PitchersHandler lists pitchers from the database mirror when there is
// one, otherwise from the index file.
func PitchersHandler(db *pgxpool.Pool, outDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			pitchers, err := store.ListPitchers(c.Request.Context(), db)
			if err == nil {
				if pitchers == nil {
					pitchers = []store.PitcherSummary{}
				}
				c.JSON(http.StatusOK, gin.H{"source": "database", "pitchers": pitchers})
				return
			}
			slog.Warn("list pitchers from database failed, using index", "err", err)
		}

		idx, err := output.ReadIndex(outDir)
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no build available yet"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read index"})
			return
		}
		pitchers := make([]store.PitcherSummary, 0, len(idx.Pitchers))
		for _, e := range idx.Pitchers {
			s := store.PitcherSummary{
				Key: e.Key, Name: e.Name, Team: e.Team, Throws: e.Throws,
				TotalPitches: e.TotalPitches, PitchCount: len(e.PitchTypes),
			}
			if e.MLBAMID > 0 {
				id := e.MLBAMID
				s.MLBAMID = &id
			}
			pitchers = append(pitchers, s)
		}
		c.JSON(http.StatusOK, gin.H{"source": "index", "pitchers": pitchers})
	}
}

func serveJSONFile(c *gin.Context, path, notFound string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read data"})
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
