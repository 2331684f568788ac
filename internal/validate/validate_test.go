package validate

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/output"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

func f(v float64) *float64 { return &v }

func writeFixture(t *testing.T, pitchers ...*arsenal.Pitcher) string {
	t.Helper()
	dir := t.TempDir()
	res := &arsenal.Result{Season: 2025, Index: arsenal.Index{Season: 2025, GeneratedAt: time.Now()}}
	for _, p := range pitchers {
		res.Pitchers = append(res.Pitchers, p)
		res.Index.Pitchers = append(res.Index.Pitchers, p.IndexEntry())
	}
	require.NoError(t, output.WriteAll(dir, res))
	return dir
}

func goodPitcher() *arsenal.Pitcher {
	return &arsenal.Pitcher{
		Key: "1", Name: "A B", Season: 2025,
		Pitches: []arsenal.Pitch{
			{Code: "FF", Metrics: arsenal.PitchMetrics{UsagePct: f(60), VelocityMPH: f(95)}},
			{Code: "SL", Metrics: arsenal.PitchMetrics{UsagePct: f(40), VelocityMPH: f(85)}},
		},
	}
}

func TestCheck_Clean(t *testing.T) {
	dir := writeFixture(t, goodPitcher())
	r, err := Check(dir)
	require.NoError(t, err)
	require.True(t, r.OK())
	require.Equal(t, 1, r.Checked)
	require.Zero(t, r.Warnings())
}

func TestCheck_FindsProblems(t *testing.T) {
	bad := &arsenal.Pitcher{
		Key: "2", Name: "", Season: 2025,
		Pitches: []arsenal.Pitch{
			{Code: "FF", Metrics: arsenal.PitchMetrics{UsagePct: f(50)}},
			{Code: "FF", Metrics: arsenal.PitchMetrics{UsagePct: f(20), VelocityMPH: f(90)}},
			{Code: pitchtype.Code("ZZ"), Metrics: arsenal.PitchMetrics{UsagePct: f(10), VelocityMPH: f(80)}},
		},
	}
	empty := &arsenal.Pitcher{Key: "3", Name: "C D", Season: 2025}
	dir := writeFixture(t, goodPitcher(), bad, empty)

	// orphan file and a missing file
	require.NoError(t, os.WriteFile(config.PitcherFile(dir, "orphan"), []byte("{}"), 0o644))
	require.NoError(t, os.Remove(config.PitcherFile(dir, "1")))

	r, err := Check(dir)
	require.NoError(t, err)
	require.False(t, r.OK())

	messages := map[string][]string{}
	for _, i := range r.Issues {
		messages[i.Key] = append(messages[i.Key], string(i.Severity)+": "+i.Message)
	}
	require.Contains(t, messages["1"][0], "unreadable")
	require.Contains(t, messages["2"], "error: missing name")
	require.Contains(t, messages["2"], "error: duplicate pitch FF")
	require.Contains(t, messages["2"], `error: unknown pitch code "ZZ"`)
	require.Contains(t, messages["2"], "warning: FF missing velocity")
	require.Contains(t, messages["2"], "warning: usage sums to 80.0%")
	require.Contains(t, messages["3"], "error: no pitches")
	require.Contains(t, messages["orphan"], "warning: file not listed in index")

	var buf bytes.Buffer
	r.Render(&buf)
	require.Contains(t, buf.String(), "checked 3 pitchers")
	require.Contains(t, buf.String(), "duplicate pitch FF")
}

func TestCheck_MissingIndex(t *testing.T) {
	_, err := Check(t.TempDir())
	require.Error(t, err)
}
