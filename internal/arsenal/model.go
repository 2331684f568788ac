package arsenal

import (
	"time"

	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

// PitchMetrics holds every per-pitch value the exports can supply. All
// fields are optional; a nil field was absent from every source.
type PitchMetrics struct {
	Pitches                *float64 `json:"pitches,omitempty"`
	UsagePct               *float64 `json:"usage_pct,omitempty"`
	VelocityMPH            *float64 `json:"velocity_mph,omitempty"`
	SpinRPM                *float64 `json:"spin_rpm,omitempty"`
	HorizontalBreakIn      *float64 `json:"horizontal_break_in,omitempty"`
	InducedVerticalBreakIn *float64 `json:"induced_vertical_break_in,omitempty"`
	ExtensionFt            *float64 `json:"extension_ft,omitempty"`
	WhiffPct               *float64 `json:"whiff_pct,omitempty"`
	PutAwayPct             *float64 `json:"put_away_pct,omitempty"`
	KPct                   *float64 `json:"k_pct,omitempty"`
	HardHitPct             *float64 `json:"hard_hit_pct,omitempty"`
	BA                     *float64 `json:"ba,omitempty"`
	SLG                    *float64 `json:"slg,omitempty"`
	WOBA                   *float64 `json:"woba,omitempty"`
	XBA                    *float64 `json:"xba,omitempty"`
	XSLG                   *float64 `json:"xslg,omitempty"`
	XWOBA                  *float64 `json:"xwoba,omitempty"`
	RunValue               *float64 `json:"run_value,omitempty"`
	RunValuePer100         *float64 `json:"run_value_per_100,omitempty"`
	SpinEfficiencyPct      *float64 `json:"spin_efficiency_pct,omitempty"`
}

// PitchSources records which season (and how) each source contributed.
// A zero season means the source had nothing for this pitch.
type PitchSources struct {
	CombinedSeason   int    `json:"combined_season"`
	EnrichmentSeason int    `json:"enrichment_season,omitempty"`
	EnrichmentMatch  string `json:"enrichment_match,omitempty"`
	SpinSeason       int    `json:"spin_season,omitempty"`
	SpinMatch        string `json:"spin_match,omitempty"`
}

type Pitch struct {
	Code    pitchtype.Code   `json:"code"`
	Name    string           `json:"name"`
	Family  pitchtype.Family `json:"family"`
	Color   string           `json:"color"`
	Metrics PitchMetrics     `json:"metrics"`
	Sources PitchSources     `json:"sources"`
}

type Pitcher struct {
	Key          string    `json:"key"`
	MLBAMID      int       `json:"mlbam_id,omitempty"`
	Name         string    `json:"name"`
	Team         string    `json:"team,omitempty"`
	Throws       string    `json:"throws,omitempty"`
	Season       int       `json:"season"`
	Segment      string    `json:"segment"`
	TotalPitches int       `json:"total_pitches,omitempty"`
	Pitches      []Pitch   `json:"pitches"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type IndexEntry struct {
	Key          string           `json:"key"`
	MLBAMID      int              `json:"mlbam_id,omitempty"`
	Name         string           `json:"name"`
	Team         string           `json:"team,omitempty"`
	Throws       string           `json:"throws,omitempty"`
	PitchTypes   []pitchtype.Code `json:"pitch_types"`
	TotalPitches int              `json:"total_pitches,omitempty"`
}

type Index struct {
	Season      int          `json:"season"`
	Segment     string       `json:"segment"`
	GeneratedAt time.Time    `json:"generated_at"`
	Pitchers    []IndexEntry `json:"pitchers"`
}

func (p *Pitcher) IndexEntry() IndexEntry {
	codes := make([]pitchtype.Code, len(p.Pitches))
	for i, pitch := range p.Pitches {
		codes[i] = pitch.Code
	}
	return IndexEntry{
		Key:          p.Key,
		MLBAMID:      p.MLBAMID,
		Name:         p.Name,
		Team:         p.Team,
		Throws:       p.Throws,
		PitchTypes:   codes,
		TotalPitches: p.TotalPitches,
	}
}
