package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
)

func TestSummaryText(t *testing.T) {
	s := Summary{Kind: "refresh", Season: 2025, CombinedSeason: 2024, Pitchers: 3, Pitches: 9, FetchFailures: 1, Warnings: 2, Duration: 90 * time.Second}
	require.Equal(t, "Pitch arsenal refresh 2025: ok", s.Subject())
	require.Equal(t, "Pitch arsenal refresh 2025: ok\ncombined data from 2024\n3 pitchers, 9 pitches\n1 downloads failed\nvalidation: 0 errors, 2 warnings\ntook 1m30s", s.Text())

	s.Err = errors.New("boom")
	require.Contains(t, s.Subject(), "FAILED")
	require.Contains(t, s.Text(), "error: boom")
}

func TestNotify(t *testing.T) {
	got := make(chan SlackPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var p SlackPayload
		json.NewDecoder(r.Body).Decode(&p)
		got <- p
	}))
	defer srv.Close()

	var sent *email.Email
	var sentAddr string
	n := New(config.NotifyConfig{
		SlackWebhookURL: srv.URL,
		SMTPHost:        "mail.example.com",
		SMTPPort:        "587",
		SMTPFrom:        "builds@example.com",
		EmailTo:         "a@example.com, b@example.com",
	})
	n.send = func(m *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr = m, addr
		return nil
	}
	require.True(t, n.Enabled())

	n.Notify(context.Background(), Summary{Kind: "build", Season: 2025, Pitchers: 1})

	require.Contains(t, (<-got).Text, "Pitch arsenal build 2025: ok")
	require.NotNil(t, sent)
	require.Equal(t, "mail.example.com:587", sentAddr)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, sent.To)
	require.Equal(t, "Pitch arsenal build 2025: ok", sent.Subject)
}

func TestNotify_Unconfigured(t *testing.T) {
	n := New(config.NotifyConfig{})
	called := false
	n.send = func(*email.Email, string, smtp.Auth) error {
		called = true
		return nil
	}
	require.False(t, n.Enabled())
	n.Notify(context.Background(), Summary{})
	require.False(t, called)

	var nilNotifier *Notifier
	nilNotifier.Notify(context.Background(), Summary{})
}

func TestSendSlack_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := SendSlack(context.Background(), newSlackClient(), srv.URL, "hi")
	require.ErrorContains(t, err, "403")
	require.NoError(t, SendSlack(context.Background(), newSlackClient(), "", "hi"))
}
