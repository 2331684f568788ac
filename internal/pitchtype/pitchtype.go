package pitchtype

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Code is a two-letter Statcast pitch type code (FF, SL, CH, ...).
type Code string

type Family string

const (
	Fastball Family = "fastball"
	Breaking Family = "breaking"
	Offspeed Family = "offspeed"
	Other    Family = "other"
)

type Info struct {
	Code   Code   `json:"code" yaml:"code"`
	Name   string `json:"name" yaml:"name"`
	Family Family `json:"family" yaml:"family"`
	Color  string `json:"color" yaml:"color"`
}

// catalog is in display order: fastballs, then breaking balls, then offspeed.
var catalog = []Info{
	{Code: "FF", Name: "4-Seam Fastball", Family: Fastball, Color: "#D22D49"},
	{Code: "SI", Name: "Sinker", Family: Fastball, Color: "#FE9D00"},
	{Code: "FC", Name: "Cutter", Family: Fastball, Color: "#933F2C"},
	{Code: "SL", Name: "Slider", Family: Breaking, Color: "#EEE716"},
	{Code: "ST", Name: "Sweeper", Family: Breaking, Color: "#DDB33A"},
	{Code: "SV", Name: "Slurve", Family: Breaking, Color: "#93AFD4"},
	{Code: "CU", Name: "Curveball", Family: Breaking, Color: "#00D1ED"},
	{Code: "KC", Name: "Knuckle Curve", Family: Breaking, Color: "#6236CD"},
	{Code: "CH", Name: "Changeup", Family: Offspeed, Color: "#1DBE3A"},
	{Code: "FS", Name: "Split-Finger", Family: Offspeed, Color: "#3BACAC"},
	{Code: "FO", Name: "Forkball", Family: Offspeed, Color: "#55CCAB"},
	{Code: "SC", Name: "Screwball", Family: Offspeed, Color: "#60DB33"},
	{Code: "KN", Name: "Knuckleball", Family: Other, Color: "#3C44CD"},
	{Code: "EP", Name: "Eephus", Family: Other, Color: "#888888"},
}

// aliases maps squashed spellings (see squash) to codes. Legacy PITCHf/x
// codes are folded into their modern equivalents.
var aliases = map[string]Code{
	"fa": "FF", "ft": "SI", "cs": "CU", "sw": "ST", "fastball": "FF",
	"4seamfastball": "FF", "fourseamfastball": "FF", "fourseam": "FF", "fourseamer": "FF", "4seam": "FF",
	"2seamfastball": "SI", "twoseamfastball": "SI", "twoseam": "SI", "sinker": "SI",
	"cutter": "FC", "cutfastball": "FC",
	"slider": "SL", "sweeper": "ST", "slurve": "SV",
	"curveball": "CU", "curve": "CU", "slowcurve": "CU",
	"knucklecurve": "KC", "knucklecurveball": "KC",
	"changeup": "CH", "change": "CH",
	"splitfinger": "FS", "splitter": "FS", "split": "FS",
	"forkball": "FO", "screwball": "SC", "knuckleball": "KN", "knuckler": "KN", "eephus": "EP",
}

// spinSuffixes maps the suffix of wide active-spin headers to codes.
var spinSuffixes = map[string]Code{
	"fourseam": "FF", "4seam": "FF", "ff": "FF",
	"sinker": "SI", "si": "SI",
	"cutter": "FC", "fc": "FC",
	"slider": "SL", "sl": "SL",
	"sweeper": "ST", "st": "ST",
	"slurve": "SV", "sv": "SV",
	"curve": "CU", "curveball": "CU", "cu": "CU",
	"knucklecurve": "KC", "kc": "KC",
	"changeup": "CH", "ch": "CH",
	"splitter": "FS", "fs": "FS",
	"forkball": "FO",
}

var byCode map[Code]int

func init() {
	reindex()
}

func reindex() {
	byCode = make(map[Code]int, len(catalog))
	for i, info := range catalog {
		byCode[info.Code] = i
	}
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize resolves a raw pitch label from any of the exports to a code.
func Normalize(raw string) (Code, bool) {
	s := squash(raw)
	if s == "" {
		return "", false
	}
	if code, ok := aliases[s]; ok {
		return code, true
	}
	code := Code(strings.ToUpper(s))
	if _, ok := byCode[code]; ok {
		return code, true
	}
	return "", false
}

func Lookup(code Code) (Info, bool) {
	i, ok := byCode[code]
	if !ok {
		return Info{}, false
	}
	return catalog[i], true
}

func Known(code Code) bool {
	_, ok := byCode[code]
	return ok
}

func All() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Codes lists every code in display order.
func Codes() []Code {
	out := make([]Code, len(catalog))
	for i, info := range catalog {
		out[i] = info.Code
	}
	return out
}

// Order returns the display position of a code; unknown codes sort last.
func Order(code Code) int {
	if i, ok := byCode[code]; ok {
		return i
	}
	return len(catalog)
}

// SpinColumn maps a wide spin-efficiency header such as
// "active_spin_fourseam" to its pitch code.
func SpinColumn(header string) (Code, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, prefix := range []string{"active_spin_", "spin_efficiency_", "active_spin", "spin_eff_"} {
		if strings.HasPrefix(h, prefix) {
			code, ok := spinSuffixes[squash(strings.TrimPrefix(h, prefix))]
			return code, ok
		}
	}
	return "", false
}

type overrideFile struct {
	Pitches []Info `yaml:"pitches"`
}

// LoadOverrides replaces names and colors of known codes from a YAML file.
// Unknown codes are rejected so a typo doesn't silently add a pitch type.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse pitch overrides %s: %w", path, err)
	}
	for _, o := range f.Pitches {
		i, ok := byCode[Code(strings.ToUpper(string(o.Code)))]
		if !ok {
			return fmt.Errorf("pitch overrides %s: unknown code %q", path, o.Code)
		}
		if o.Name != "" {
			catalog[i].Name = o.Name
		}
		if o.Color != "" {
			catalog[i].Color = o.Color
		}
		if o.Family != "" {
			catalog[i].Family = o.Family
		}
	}
	return nil
}
