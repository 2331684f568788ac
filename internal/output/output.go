package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/names"
)

var ErrInvalidKey = errors.New("invalid pitcher key")

// WriteAll writes one JSON file per pitcher plus the index, then removes
// pitcher files left over from a previous build that are no longer indexed.
// The index is written last so a reader never sees entries whose files
// don't exist yet.
func WriteAll(dir string, res *arsenal.Result) error {
	pdir := config.PitchersDir(dir)
	if err := os.MkdirAll(pdir, 0o755); err != nil {
		return err
	}

	keep := make(map[string]bool, len(res.Pitchers))
	for _, p := range res.Pitchers {
		if !names.ValidKey(p.Key) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, p.Key)
		}
		if err := writeJSON(config.PitcherFile(dir, p.Key), p); err != nil {
			return err
		}
		keep[p.Key+".json"] = true
	}

	if err := writeJSON(config.IndexFile(dir), res.Index); err != nil {
		return err
	}

	entries, err := os.ReadDir(pdir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || keep[e.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(pdir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON writes through a temp file in the same directory and renames it
// into place.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	return WriteFileAtomic(path, data)
}

func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ReadIndex(dir string) (*arsenal.Index, error) {
	data, err := os.ReadFile(config.IndexFile(dir))
	if err != nil {
		return nil, err
	}
	var idx arsenal.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &idx, nil
}

// ReadPitcher loads one pitcher file. key is checked before it touches the
// file system; it may come straight from a URL.
func ReadPitcher(dir, key string) (*arsenal.Pitcher, error) {
	if !names.ValidKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	data, err := os.ReadFile(config.PitcherFile(dir, key))
	if err != nil {
		return nil, err
	}
	var p arsenal.Pitcher
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pitcher %s: %w", key, err)
	}
	return &p, nil
}

// PitcherPath returns the file path for key, or ErrInvalidKey.
func PitcherPath(dir, key string) (string, error) {
	if !names.ValidKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return config.PitcherFile(dir, key), nil
}
