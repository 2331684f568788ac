// Package notification reports finished pipeline runs to Slack and email.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
)

// Summary describes one pipeline run.
type Summary struct {
	Kind           string
	Season         int
	CombinedSeason int
	Pitchers       int
	Pitches        int
	FetchFailures  int
	Errors         int
	Warnings       int
	Duration       time.Duration
	Err            error
}

func (s Summary) Subject() string {
	status := "ok"
	if s.Err != nil {
		status = "FAILED"
	} else if s.Errors > 0 {
		status = "validation errors"
	}
	return fmt.Sprintf("Pitch arsenal %s %d: %s", s.Kind, s.Season, status)
}

func (s Summary) Text() string {
	var b strings.Builder
	b.WriteString(s.Subject())
	b.WriteString("\n")
	if s.Err != nil {
		fmt.Fprintf(&b, "error: %v\n", s.Err)
	}
	if s.CombinedSeason != 0 && s.CombinedSeason != s.Season {
		fmt.Fprintf(&b, "combined data from %d\n", s.CombinedSeason)
	}
	fmt.Fprintf(&b, "%d pitchers, %d pitches\n", s.Pitchers, s.Pitches)
	if s.FetchFailures > 0 {
		fmt.Fprintf(&b, "%d downloads failed\n", s.FetchFailures)
	}
	fmt.Fprintf(&b, "validation: %d errors, %d warnings\n", s.Errors, s.Warnings)
	fmt.Fprintf(&b, "took %s", s.Duration.Round(time.Second))
	return b.String()
}

type Notifier struct {
	cfg   config.NotifyConfig
	slack *resty.Client
	send  sendFunc
}

func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{cfg: cfg, slack: newSlackClient(), send: smtpSend}
}

// Enabled reports whether any channel is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && (n.cfg.SlackWebhookURL != "" || emailEnabled(n.cfg))
}

// Notify sends the summary on every configured channel. Failures are
// logged and never returned; a run's result doesn't depend on delivery.
func (n *Notifier) Notify(ctx context.Context, s Summary) {
	if !n.Enabled() {
		return
	}
	if err := SendSlack(ctx, n.slack, n.cfg.SlackWebhookURL, s.Text()); err != nil {
		slog.Warn("slack notification failed", "err", err)
	}
	if err := sendEmail(n.send, n.cfg, s.Subject(), s.Text()); err != nil {
		slog.Warn("email notification failed", "err", err)
	}
}
