// Package fetch downloads the raw CSV exports the build reads: per pitch
// type and spin files from the stats site, and the combined export from
// the analytics service.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/output"
)

var (
	ErrNotCSV      = errors.New("response is not CSV")
	ErrNoSessionID = errors.New("no session id in page")
)

// Client is a rate limited HTTP client. Both sites are public and
// unauthenticated, so the only courtesy owed is a slow request rate.
type Client struct {
	http *resty.Client
}

func NewClient(cfg config.FetchConfig) *Client {
	httpClient := resty.New()
	httpClient.SetHeader("User-Agent", cfg.UserAgent)
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetRetryCount(2)
	httpClient.SetRetryWaitTime(2 * time.Second)
	httpClient.SetRetryMaxWaitTime(10 * time.Second)
	httpClient.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
		return r.StatusCode() == 429 || r.StatusCode() >= 500
	})

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{http: httpClient}
}

// Get returns the response body, or an error for any non-2xx status.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: %s", rawURL, res.Status())
	}
	slog.Debug("fetched", "url", rawURL, "bytes", len(res.Body()), "took", res.Time())
	return res.Body(), nil
}

// GetCSV is Get plus a sanity check that the body is a CSV export and not
// an HTML error or login page served with a 200.
func (c *Client) GetCSV(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if err := checkCSV(body); err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	return body, nil
}

func checkCSV(body []byte) error {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\ufeff")))
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrNotCSV)
	}
	if trimmed[0] == '<' {
		return fmt.Errorf("%w: got HTML", ErrNotCSV)
	}
	header, _, _ := bytes.Cut(trimmed, []byte("\n"))
	if !bytes.ContainsRune(header, ',') {
		return fmt.Errorf("%w: header has no columns", ErrNotCSV)
	}
	return nil
}

// Vars fills a URL template.
type Vars struct {
	Season  int
	Segment string
	Pitch   string
	Session string
}

// Expand substitutes {season}, {segment}, {pitch} and {session} in tmpl.
// Values are query-escaped.
func Expand(tmpl string, v Vars) string {
	return strings.NewReplacer(
		"{season}", strconv.Itoa(v.Season),
		"{segment}", url.QueryEscape(v.Segment),
		"{pitch}", url.QueryEscape(v.Pitch),
		"{session}", url.QueryEscape(v.Session),
	).Replace(tmpl)
}

func save(path string, body []byte) error {
	if err := output.WriteFileAtomic(path, body); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("saved", "file", path, "bytes", len(body))
	return nil
}
