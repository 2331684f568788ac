package handlers

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
	"github.com/dwes123/pitch-arsenal-go/internal/output"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

// DashboardHandler renders the arsenal page. The pitcher list and pitch
// legend are rendered server side; the selected pitcher's charts are drawn
// in the browser from /data/pitchers/<key>.json.
func DashboardHandler(outDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx, err := output.ReadIndex(outDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("dashboard: read index", "err", err)
		}
		if idx == nil {
			idx = &arsenal.Index{}
		}

		selected := c.Query("pitcher")
		if selected == "" && len(idx.Pitchers) > 0 {
			selected = idx.Pitchers[0].Key
		}

		totalPitches := 0
		for _, p := range idx.Pitchers {
			totalPitches += p.TotalPitches
		}

		RenderTemplate(c, "dashboard.html", gin.H{
			"Index":        idx,
			"Selected":     selected,
			"TotalPitches": totalPitches,
			"PitchTypes":   pitchtype.All(),
		})
	}
}
