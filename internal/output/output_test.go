package output

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
	"github.com/dwes123/pitch-arsenal-go/internal/config"
)

func testResult() *arsenal.Result {
	usage := 100.0
	p := &arsenal.Pitcher{
		Key:       "669373",
		MLBAMID:   669373,
		Name:      "Tarik Skubal",
		Season:    2025,
		Segment:   "season",
		UpdatedAt: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Pitches: []arsenal.Pitch{
			{Code: "FF", Name: "4-Seam Fastball", Metrics: arsenal.PitchMetrics{UsagePct: &usage}},
		},
	}
	return &arsenal.Result{
		Season:   2025,
		Pitchers: []*arsenal.Pitcher{p},
		Index: arsenal.Index{
			Season:   2025,
			Segment:  "season",
			Pitchers: []arsenal.IndexEntry{p.IndexEntry()},
		},
	}
}

func TestWriteAll_RoundTripAndPrune(t *testing.T) {
	dir := t.TempDir()
	stale := config.PitcherFile(dir, "old-pitcher")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))

	require.NoError(t, WriteAll(dir, testResult()))

	_, err := os.Stat(stale)
	require.True(t, errors.Is(err, fs.ErrNotExist), "stale pitcher file should be removed")

	idx, err := ReadIndex(dir)
	require.NoError(t, err)
	require.Len(t, idx.Pitchers, 1)
	require.Equal(t, "669373", idx.Pitchers[0].Key)

	p, err := ReadPitcher(dir, "669373")
	require.NoError(t, err)
	require.Equal(t, "Tarik Skubal", p.Name)
	require.InDelta(t, 100.0, *p.Pitches[0].Metrics.UsagePct, 1e-9)

	// no temp files left behind
	entries, err := os.ReadDir(config.PitchersDir(dir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReadPitcher_RejectsBadKeys(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadPitcher(dir, "../index")
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = PitcherPath(dir, "A")
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = ReadPitcher(dir, "123")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWriteAll_InvalidKey(t *testing.T) {
	res := testResult()
	res.Pitchers[0].Key = "../x"
	require.ErrorIs(t, WriteAll(t.TempDir(), res), ErrInvalidKey)
}
