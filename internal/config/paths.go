package config

import (
	"path/filepath"
	"strconv"
)

// On-disk layout shared by the fetchers (writers) and the builder (reader):
//
//	<raw>/<season>/combined.csv                   analytics export
//	<raw>/<season>/spin.csv                       spin efficiency
//	<raw>/<season>/<segment>/pitch_<CODE>.csv     per pitch type
//	<out>/index.json
//	<out>/pitchers/<key>.json

func SeasonDir(raw string, season int) string {
	return filepath.Join(raw, strconv.Itoa(season))
}

func CombinedFile(raw string, season int) string {
	return filepath.Join(SeasonDir(raw, season), "combined.csv")
}

func SpinFile(raw string, season int) string {
	return filepath.Join(SeasonDir(raw, season), "spin.csv")
}

func SegmentDir(raw string, season int, segment string) string {
	return filepath.Join(SeasonDir(raw, season), segment)
}

func PitchTypeFile(raw string, season int, segment, code string) string {
	return filepath.Join(SegmentDir(raw, season, segment), "pitch_"+code+".csv")
}

func IndexFile(out string) string {
	return filepath.Join(out, "index.json")
}

func PitchersDir(out string) string {
	return filepath.Join(out, "pitchers")
}

func PitcherFile(out, key string) string {
	return filepath.Join(PitchersDir(out), key+".json")
}
