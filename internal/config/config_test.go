package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultAt_SeasonRollover(t *testing.T) {
	march := DefaultAt(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.Equal(t, 2025, march.Season)
	require.Equal(t, []int{2024, 2023}, march.FallbackSeasons)

	june := DefaultAt(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, 2026, june.Season)
	require.NoError(t, june.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultAt(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	env := map[string]string{
		"PITCH_SEASON":           "2024",
		"PITCH_FALLBACK_SEASONS": "2023, 2021",
		"PITCH_OUT_DIR":          "/srv/data",
		"ADMIN_TOKEN_HASH":       "$2a$10$abc",
		"FETCH_RPS":              "2",
	}
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))
	require.Equal(t, 2024, cfg.Season)
	require.Equal(t, []int{2023, 2021}, cfg.FallbackSeasons)
	require.Equal(t, "/srv/data", cfg.OutDir)
	require.Equal(t, "$2a$10$abc", cfg.Server.AdminTokenHash)
	require.Equal(t, 2.0, cfg.Fetch.RequestsPerSecond)
	require.Equal(t, "season", cfg.Segment)
	require.Equal(t, []int{2024, 2023, 2021}, cfg.Seasons())

	bad := map[string]string{"PITCH_SEASON": "twenty"}
	require.Error(t, cfg.applyEnv(func(k string) string { return bad[k] }))
}

func TestValidate(t *testing.T) {
	cfg := DefaultAt(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	cfg.FallbackSeasons = []int{2025}
	require.ErrorContains(t, cfg.Validate(), "must be older")

	cfg = DefaultAt(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	cfg.Season = 2001
	require.ErrorContains(t, cfg.Validate(), "out of range")

	cfg = DefaultAt(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	cfg.FuzzyThreshold = 1.5
	require.ErrorContains(t, cfg.Validate(), "fuzzy_threshold")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitchdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
season: 2024
fallback_seasons: [2023]
segment: second-half
out_dir: out
fetch:
  requests_per_second: 1.5
`), 0o644))

	t.Setenv("PITCH_OUT_DIR", "env-out")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2024, cfg.Season)
	require.Equal(t, []int{2023}, cfg.FallbackSeasons)
	require.Equal(t, "second-half", cfg.Segment)
	require.Equal(t, "env-out", cfg.OutDir)
	require.Equal(t, 1.5, cfg.Fetch.RequestsPerSecond)
	// untouched defaults survive the file
	require.Equal(t, "data/raw", cfg.RawDir)
}

func TestParseSeasons(t *testing.T) {
	got, err := ParseSeasons("2024,,2023 ")
	require.NoError(t, err)
	require.Equal(t, []int{2024, 2023}, got)

	_, err = ParseSeasons("2024,x")
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	require.Equal(t, filepath.Join("raw", "2025", "season", "pitch_FF.csv"), PitchTypeFile("raw", 2025, "season", "FF"))
	require.Equal(t, filepath.Join("out", "pitchers", "660271.json"), PitcherFile("out", "660271"))
}

func TestSetSeason(t *testing.T) {
	cfg := DefaultAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	cfg.SetSeason(2024)
	require.Equal(t, 2024, cfg.Season)
	require.Equal(t, []int{2023}, cfg.FallbackSeasons)

	cfg.SetSeason(2009)
	require.Equal(t, []int{2008}, cfg.FallbackSeasons)
	require.NoError(t, cfg.Validate())
}

func TestLoad_SeasonOnly(t *testing.T) {
	t.Setenv("PITCH_CONFIG", "")
	t.Setenv("PITCH_FALLBACK_SEASONS", "")

	t.Run("env", func(t *testing.T) {
		t.Setenv("PITCH_SEASON", "2023")
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, 2023, cfg.Season)
		require.Equal(t, []int{2022, 2021}, cfg.FallbackSeasons)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Setenv("PITCH_SEASON", "")
		path := filepath.Join(t.TempDir(), "pitchdata.yaml")
		require.NoError(t, os.WriteFile(path, []byte("season: 2023\n"), 0o644))
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 2023, cfg.Season)
		require.Equal(t, []int{2022, 2021}, cfg.FallbackSeasons)
	})

	t.Run("yaml fallbacks kept", func(t *testing.T) {
		t.Setenv("PITCH_SEASON", "")
		path := filepath.Join(t.TempDir(), "pitchdata.yaml")
		require.NoError(t, os.WriteFile(path, []byte("season: 2023\nfallback_seasons: [2020]\n"), 0o644))
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, []int{2020}, cfg.FallbackSeasons)
	})
}
