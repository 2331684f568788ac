package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var funcMap = template.FuncMap{
	"formatInt": func(v any) string {
		switch val := v.(type) {
		case int:
			return printer.Sprintf("%d", val)
		case float64:
			return printer.Sprintf("%d", int64(val))
		case *float64:
			if val == nil {
				return "-"
			}
			return printer.Sprintf("%d", int64(*val))
		default:
			return fmt.Sprintf("%v", v)
		}
	},
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format("Jan 2, 2006 15:04 UTC")
	},
}

var templates = template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))

// RenderTemplate executes one of the embedded page templates.
func RenderTemplate(c *gin.Context, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execute failed", "template", name, "err", err)
		c.String(http.StatusInternalServerError, "Error rendering template")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
