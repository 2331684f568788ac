package arsenal

import (
	"github.com/dwes123/pitch-arsenal-go/internal/csvsource"
)

type metricColumn struct {
	field      func(*PitchMetrics) **float64
	candidates []string
}

// metricColumns lists the header spellings seen for each metric across
// both services' exports.
var metricColumns = []metricColumn{
	{func(m *PitchMetrics) **float64 { return &m.Pitches }, []string{"pitches", "pitch_count", "number_of_pitches", "total_pitches", "n_pitches", "n"}},
	{func(m *PitchMetrics) **float64 { return &m.UsagePct }, []string{"pitch_usage", "usage_pct", "usage", "pitch_percent", "pitch_pct"}},
	{func(m *PitchMetrics) **float64 { return &m.VelocityMPH }, []string{"velocity", "avg_speed", "release_speed", "avg_velocity", "velo", "mph"}},
	{func(m *PitchMetrics) **float64 { return &m.SpinRPM }, []string{"spin_rate", "release_spin_rate", "avg_spin", "avg_spin_rate", "spin"}},
	{func(m *PitchMetrics) **float64 { return &m.HorizontalBreakIn }, []string{"horizontal_break", "horz_break", "hb", "hmov", "pfx_x", "break_x"}},
	{func(m *PitchMetrics) **float64 { return &m.InducedVerticalBreakIn }, []string{"induced_vertical_break", "ivb", "vert_break_induced", "vmov", "pfx_z", "break_z_induced"}},
	{func(m *PitchMetrics) **float64 { return &m.ExtensionFt }, []string{"extension", "release_extension", "avg_extension", "ext"}},
	{func(m *PitchMetrics) **float64 { return &m.WhiffPct }, []string{"whiff_percent", "whiff_pct", "whiff"}},
	{func(m *PitchMetrics) **float64 { return &m.PutAwayPct }, []string{"put_away", "put_away_pct", "putaway"}},
	{func(m *PitchMetrics) **float64 { return &m.KPct }, []string{"k_percent", "k_pct", "strikeout_percent"}},
	{func(m *PitchMetrics) **float64 { return &m.HardHitPct }, []string{"hard_hit_percent", "hard_hit_pct", "hardhit_percent", "hard_hit"}},
	{func(m *PitchMetrics) **float64 { return &m.BA }, []string{"ba", "avg", "batting_avg"}},
	{func(m *PitchMetrics) **float64 { return &m.SLG }, []string{"slg", "slg_percent"}},
	{func(m *PitchMetrics) **float64 { return &m.WOBA }, []string{"woba"}},
	{func(m *PitchMetrics) **float64 { return &m.XBA }, []string{"est_ba", "xba"}},
	{func(m *PitchMetrics) **float64 { return &m.XSLG }, []string{"est_slg", "xslg"}},
	{func(m *PitchMetrics) **float64 { return &m.XWOBA }, []string{"est_woba", "xwoba"}},
	{func(m *PitchMetrics) **float64 { return &m.RunValue }, []string{"run_value", "rv"}},
	{func(m *PitchMetrics) **float64 { return &m.RunValuePer100 }, []string{"run_value_per_100", "rv100", "rv_100"}},
	{func(m *PitchMetrics) **float64 { return &m.SpinEfficiencyPct }, []string{"spin_efficiency", "active_spin", "active_spin_pct", "spin_eff"}},
}

// fillMetrics copies the row's metrics into dst. With overwrite, a value in
// the row replaces what dst already holds; otherwise only empty fields are
// filled.
func fillMetrics(dst *PitchMetrics, row csvsource.Row, overwrite bool) int {
	filled := 0
	for _, mc := range metricColumns {
		v, ok := row.Float(mc.candidates...)
		if !ok {
			continue
		}
		field := mc.field(dst)
		if *field != nil && !overwrite {
			continue
		}
		*field = v
		filled++
	}
	return filled
}

func ptr(f float64) *float64 {
	return &f
}
