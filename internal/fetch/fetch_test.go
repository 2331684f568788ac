package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

func testConfig(base string) config.FetchConfig {
	return config.FetchConfig{
		StatsCSVURL:        base + "/stats?pitch={pitch}&year={season}&seg={segment}",
		SpinCSVURL:         base + "/spin?year={season}",
		AnalyticsPageURL:   base + "/page?year={season}",
		AnalyticsExportURL: base + "/export?session={session}&year={season}",
		RequestsPerSecond:  100,
		Timeout:            5 * time.Second,
		UserAgent:          "pitch-arsenal-test",
	}
}

func TestExtractSessionID(t *testing.T) {
	cases := map[string]string{
		`<form><input type="hidden" name="session_id" value="abc123"></form>`: "abc123",
		`<head><meta name="session-id" content="meta-42"></head>`:             "meta-42",
		`<div id="app" data-session-id="data.77"></div>`:                      "data.77",
		`<script>window.cfg = { sessionId: "scr_9f8e" };</script>`:            "scr_9f8e",
		`<script>var u = "/export?session_id=q1w2e3&x=1";</script>`:           "q1w2e3",
	}
	for html, want := range cases {
		got, err := ExtractSessionID([]byte(html))
		require.NoError(t, err, html)
		require.Equal(t, want, got, html)
	}

	_, err := ExtractSessionID([]byte(`<html><body><p>nothing here</p><input name="session_id" value=""></body></html>`))
	require.ErrorIs(t, err, ErrNoSessionID)
}

func TestExpand(t *testing.T) {
	got := Expand("x?p={pitch}&y={season}&s={segment}&k={session}", Vars{Season: 2025, Segment: "first half", Pitch: "FF", Session: "a&b"})
	require.Equal(t, "x?p=FF&y=2025&s=first+half&k=a%26b", got)
}

func TestCheckCSV(t *testing.T) {
	require.NoError(t, checkCSV([]byte("\ufeffa,b\n1,2\n")))
	require.ErrorIs(t, checkCSV([]byte("  <!doctype html><html></html>")), ErrNotCSV)
	require.ErrorIs(t, checkCSV([]byte("")), ErrNotCSV)
	require.ErrorIs(t, checkCSV([]byte("just text\n")), ErrNotCSV)
}

func TestStatsSiteFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.UserAgent() != "pitch-arsenal-test" || q.Get("year") != "2025" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/stats":
			if q.Get("seg") != "season" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			switch q.Get("pitch") {
			case "FF":
				w.Write([]byte("player_id,whiff_percent\n1,22.0\n"))
			case "SL":
				w.Write([]byte("<html>please log in</html>"))
			default:
				http.NotFound(w, r)
			}
		case "/spin":
			w.Write([]byte("player_id,active_spin_fourseam\n1,0.95\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	raw := t.TempDir()
	cfg := testConfig(srv.URL)
	f := NewStatsSiteFetcher(NewClient(cfg), cfg, raw)

	written, err := f.FetchPitchTypes(context.Background(), 2025, "season", []pitchtype.Code{"FF", "SL", "CU"})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotCSV)
	require.Contains(t, err.Error(), "CU")
	require.Equal(t, []string{config.PitchTypeFile(raw, 2025, "season", "FF")}, written)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	require.Equal(t, "player_id,whiff_percent\n1,22.0\n", string(data))

	_, err = os.Stat(config.PitchTypeFile(raw, 2025, "season", "SL"))
	require.True(t, os.IsNotExist(err))

	path, err := f.FetchSpin(context.Background(), 2025)
	require.NoError(t, err)
	require.Equal(t, config.SpinFile(raw, 2025), path)
}

func TestAnalyticsFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Write([]byte(`<html><body><input type="hidden" name="session_id" value="s3ss10n"></body></html>`))
		case "/export":
			if r.URL.Query().Get("session") != "s3ss10n" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Write([]byte("player_id,pitch_type,pitch_usage\n1,FF,55.0\n"))
		}
	}))
	defer srv.Close()

	raw := t.TempDir()
	cfg := testConfig(srv.URL)
	path, err := NewAnalyticsFetcher(NewClient(cfg), cfg, raw).Fetch(context.Background(), 2025)
	require.NoError(t, err)
	require.Equal(t, config.CombinedFile(raw, 2025), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "FF,55.0")
}

func TestAnalyticsFetcher_NoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>maintenance</body></html>`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	_, err := NewAnalyticsFetcher(NewClient(cfg), cfg, t.TempDir()).Fetch(context.Background(), 2025)
	require.ErrorIs(t, err, ErrNoSessionID)
}
