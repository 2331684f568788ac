package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

// StatsSiteFetcher downloads the per pitch type leaderboards and the spin
// efficiency leaderboard.
type StatsSiteFetcher struct {
	client *Client
	cfg    config.FetchConfig
	rawDir string
}

func NewStatsSiteFetcher(client *Client, cfg config.FetchConfig, rawDir string) *StatsSiteFetcher {
	return &StatsSiteFetcher{client: client, cfg: cfg, rawDir: rawDir}
}

// FetchPitchTypes downloads one CSV per code (every catalog code when codes
// is empty). A failed code doesn't stop the rest; the written paths are
// returned alongside the joined errors.
func (f *StatsSiteFetcher) FetchPitchTypes(ctx context.Context, season int, segment string, codes []pitchtype.Code) ([]string, error) {
	if f.cfg.StatsCSVURL == "" {
		return nil, errors.New("stats_csv_url is not configured")
	}
	if len(codes) == 0 {
		codes = pitchtype.Codes()
	}

	var written []string
	var errs []error
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		u := Expand(f.cfg.StatsCSVURL, Vars{Season: season, Segment: segment, Pitch: string(code)})
		body, err := f.client.GetCSV(ctx, u)
		if err != nil {
			slog.Warn("pitch type fetch failed", "season", season, "pitch", code, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", code, err))
			continue
		}
		path := config.PitchTypeFile(f.rawDir, season, segment, string(code))
		if err := save(path, body); err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func (f *StatsSiteFetcher) FetchSpin(ctx context.Context, season int) (string, error) {
	if f.cfg.SpinCSVURL == "" {
		return "", errors.New("spin_csv_url is not configured")
	}
	body, err := f.client.GetCSV(ctx, Expand(f.cfg.SpinCSVURL, Vars{Season: season}))
	if err != nil {
		return "", fmt.Errorf("spin: %w", err)
	}
	path := config.SpinFile(f.rawDir, season)
	return path, save(path, body)
}
