package arsenal

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/csvsource"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

// SeasonSources is everything on disk for one season. Any table may be nil.
type SeasonSources struct {
	Season     int
	Combined   *csvsource.Table
	Enrichment map[pitchtype.Code]*csvsource.Table
	Spin       *csvsource.Table
}

func (s SeasonSources) Empty() bool {
	return s.Combined == nil && len(s.Enrichment) == 0 && s.Spin == nil
}

// LoadSeason reads the exports for one season. Missing files are skipped;
// files that exist but can't be parsed are errors.
func LoadSeason(rawDir string, season int, segment string) (SeasonSources, error) {
	src := SeasonSources{Season: season, Enrichment: make(map[pitchtype.Code]*csvsource.Table)}

	var err error
	if src.Combined, err = readOptional(config.CombinedFile(rawDir, season)); err != nil {
		return src, err
	}
	if src.Spin, err = readOptional(config.SpinFile(rawDir, season)); err != nil {
		return src, err
	}

	pattern := filepath.Join(config.SegmentDir(rawDir, season, segment), "pitch_*.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return src, err
	}
	if len(files) == 0 {
		// older pulls wrote pitch files straight into the season dir
		files, _ = filepath.Glob(filepath.Join(config.SeasonDir(rawDir, season), "pitch_*.csv"))
	}
	for _, f := range files {
		raw := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(f), "pitch_"), ".csv")
		code, ok := pitchtype.Normalize(raw)
		if !ok {
			slog.Warn("skipping pitch file with unknown pitch type", "file", f)
			continue
		}
		t, err := readOptional(f)
		if err != nil {
			return src, err
		}
		if t != nil {
			src.Enrichment[code] = t
		}
	}

	slog.Debug("loaded season sources",
		"season", season,
		"combined", src.Combined != nil,
		"pitch_files", len(src.Enrichment),
		"spin", src.Spin != nil,
	)
	return src, nil
}

func readOptional(path string) (*csvsource.Table, error) {
	t, err := csvsource.ReadFile(path)
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case errors.Is(err, csvsource.ErrNoHeader):
		slog.Warn("ignoring empty csv", "file", path)
		return nil, nil
	default:
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
}
