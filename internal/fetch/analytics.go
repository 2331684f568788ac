package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
)

// AnalyticsFetcher downloads the combined export. The export URL only works
// with a session id that the landing page renders into its HTML.
type AnalyticsFetcher struct {
	client *Client
	cfg    config.FetchConfig
	rawDir string
}

func NewAnalyticsFetcher(client *Client, cfg config.FetchConfig, rawDir string) *AnalyticsFetcher {
	return &AnalyticsFetcher{client: client, cfg: cfg, rawDir: rawDir}
}

func (f *AnalyticsFetcher) Fetch(ctx context.Context, season int) (string, error) {
	if f.cfg.AnalyticsPageURL == "" || f.cfg.AnalyticsExportURL == "" {
		return "", errors.New("analytics_page_url and analytics_export_url must be configured")
	}

	page, err := f.client.Get(ctx, Expand(f.cfg.AnalyticsPageURL, Vars{Season: season}))
	if err != nil {
		return "", fmt.Errorf("analytics page: %w", err)
	}
	session, err := ExtractSessionID(page)
	if err != nil {
		return "", err
	}
	slog.Debug("analytics session", "season", season, "session", session)

	body, err := f.client.GetCSV(ctx, Expand(f.cfg.AnalyticsExportURL, Vars{Season: season, Session: session}))
	if err != nil {
		return "", fmt.Errorf("analytics export: %w", err)
	}
	path := config.CombinedFile(f.rawDir, season)
	return path, save(path, body)
}

var sessionAttrs = []struct{ selector, attr string }{
	{`input[name="session_id"]`, "value"},
	{`input[name="sessionId"]`, "value"},
	{`meta[name="session-id"]`, "content"},
	{`meta[name="session_id"]`, "content"},
	{`[data-session-id]`, "data-session-id"},
}

var sessionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`["']?session[_-]?[iI]d["']?\s*[:=]\s*["']([A-Za-z0-9._~-]{4,})["']`),
	regexp.MustCompile(`[?&]session(?:_id|Id)?=([A-Za-z0-9._~-]{4,})`),
}

// ExtractSessionID finds the session id in a server rendered page: first in
// form fields, meta tags and data attributes, then in inline scripts.
func ExtractSessionID(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	for _, sa := range sessionAttrs {
		if v, ok := doc.Find(sa.selector).First().Attr(sa.attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = matchSession(s.Text())
		return found == ""
	})
	if found != "" {
		return found, nil
	}
	return "", ErrNoSessionID
}

func matchSession(text string) string {
	for _, re := range sessionPatterns {
		if m := re.FindStringSubmatch(text); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}
