package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
)

// UpsertPitchers mirrors a build into Postgres. Each pitcher's arsenal is
// replaced wholesale; pitchers missing from the build are removed. Runs in
// one transaction so readers see either the old build or the new one.
func UpsertPitchers(ctx context.Context, db *pgxpool.Pool, pitchers []*arsenal.Pitcher) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	keys := make([]string, 0, len(pitchers))
	for _, p := range pitchers {
		keys = append(keys, p.Key)

		var mlbamID any
		if p.MLBAMID > 0 {
			mlbamID = p.MLBAMID
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO pitchers (key, mlbam_id, name, team, throws, season, segment, total_pitches, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (key) DO UPDATE SET
				mlbam_id = EXCLUDED.mlbam_id,
				name = EXCLUDED.name,
				team = EXCLUDED.team,
				throws = EXCLUDED.throws,
				season = EXCLUDED.season,
				segment = EXCLUDED.segment,
				total_pitches = EXCLUDED.total_pitches,
				updated_at = EXCLUDED.updated_at
		`, p.Key, mlbamID, p.Name, p.Team, p.Throws, p.Season, p.Segment, p.TotalPitches, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert pitcher %s: %w", p.Key, err)
		}

		if _, err = tx.Exec(ctx, `DELETE FROM pitch_arsenal WHERE pitcher_key = $1`, p.Key); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, pitch := range p.Pitches {
			metricsJSON, err := json.Marshal(pitch.Metrics)
			if err != nil {
				return err
			}
			sourcesJSON, err := json.Marshal(pitch.Sources)
			if err != nil {
				return err
			}
			m := pitch.Metrics
			batch.Queue(`
				INSERT INTO pitch_arsenal (pitcher_key, pitch_code, pitch_name, family, usage_pct, velocity_mph, spin_rpm, whiff_pct, xwoba, metrics, sources)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`, p.Key, string(pitch.Code), pitch.Name, string(pitch.Family), m.UsagePct, m.VelocityMPH, m.SpinRPM, m.WhiffPct, m.XWOBA, metricsJSON, sourcesJSON)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert arsenal %s: %w", p.Key, err)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM pitchers WHERE NOT (key = ANY($1))`, keys); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PitcherSummary is a row of the mirrored pitchers table.
type PitcherSummary struct {
	Key          string `json:"key"`
	MLBAMID      *int   `json:"mlbam_id,omitempty"`
	Name         string `json:"name"`
	Team         string `json:"team"`
	Throws       string `json:"throws"`
	TotalPitches int    `json:"total_pitches"`
	PitchCount   int    `json:"pitch_types"`
}

// ListPitchers returns mirrored pitchers by name.
func ListPitchers(ctx context.Context, db *pgxpool.Pool) ([]PitcherSummary, error) {
	rows, err := db.Query(ctx, `
		SELECT p.key, p.mlbam_id, p.name, p.team, p.throws, p.total_pitches, COUNT(a.pitch_code)
		FROM pitchers p
		LEFT JOIN pitch_arsenal a ON a.pitcher_key = p.key
		GROUP BY p.key
		ORDER BY p.name, p.key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PitcherSummary
	for rows.Next() {
		var s PitcherSummary
		if err := rows.Scan(&s.Key, &s.MLBAMID, &s.Name, &s.Team, &s.Throws, &s.TotalPitches, &s.PitchCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
