package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BuildLog struct {
	ID             int64     `json:"id"`
	Kind           string    `json:"kind"`
	Season         int       `json:"season"`
	CombinedSeason int       `json:"combined_season"`
	Pitchers       int       `json:"pitchers"`
	Pitches        int       `json:"pitches"`
	Warnings       int       `json:"warnings"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// LogBuild records a pipeline run in the audit log.
func LogBuild(ctx context.Context, db *pgxpool.Pool, b BuildLog) error {
	_, err := db.Exec(ctx, `
		INSERT INTO build_log (kind, season, combined_season, pitchers, pitches, warnings, status, error_message, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, b.Kind, b.Season, b.CombinedSeason, b.Pitchers, b.Pitches, b.Warnings, b.Status, b.ErrorMessage, b.StartedAt)
	return err
}

// RecentBuilds returns the newest runs first.
func RecentBuilds(ctx context.Context, db *pgxpool.Pool, limit int) ([]BuildLog, error) {
	rows, err := db.Query(ctx, `
		SELECT id, kind, season, combined_season, pitchers, pitches, warnings, status, error_message, started_at, finished_at
		FROM build_log ORDER BY started_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var builds []BuildLog
	for rows.Next() {
		var b BuildLog
		if err := rows.Scan(&b.ID, &b.Kind, &b.Season, &b.CombinedSeason, &b.Pitchers, &b.Pitches, &b.Warnings,
			&b.Status, &b.ErrorMessage, &b.StartedAt, &b.FinishedAt); err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}
