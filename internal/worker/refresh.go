package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dwes123/pitch-arsenal-go/internal/pipeline"
)

type Refresher interface {
	Refresh(ctx context.Context) (*pipeline.Result, error)
}

var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// ShouldRun reports whether a refresh is due at now: 5-6 AM ET, from
// spring training (Mar 20) through the World Series (Nov 5), and not
// already run that ET day.
func ShouldRun(now time.Time, lastRun string) bool {
	et := now.In(eastern)
	month, day, hour := et.Month(), et.Day(), et.Hour()
	if month < time.March || month > time.November ||
		(month == time.March && day < 20) || (month == time.November && day > 5) {
		return false
	}
	if hour < 5 || hour > 6 {
		return false
	}
	return et.Format("2006-01-02") != lastRun
}

// StartRefreshWorker refreshes the exports and rebuilds once a day.
// Ticks every 30 minutes until ctx is cancelled.
func StartRefreshWorker(ctx context.Context, r Refresher) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		var lastRun string
		for {
			select {
			case <-ctx.Done():
				slog.Info("refresh worker stopped")
				return
			case <-ticker.C:
				now := time.Now()
				if !ShouldRun(now, lastRun) {
					continue
				}
				slog.Info("refresh worker: starting daily refresh")
				_, err := r.Refresh(ctx)
				if errors.Is(err, pipeline.ErrRunInProgress) {
					// an admin rebuild is running; try again next tick
					continue
				}
				lastRun = now.In(eastern).Format("2006-01-02")
				if err != nil {
					slog.Error("refresh worker: refresh failed", "err", err)
				}
			}
		}
	}()
}
