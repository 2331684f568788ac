package csvsource

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/dwes123/pitch-arsenal-go/internal/names"
)

var ErrNoHeader = errors.New("csv has no header row")

// Column candidates, tried in order. Exports from the stats site and the
// analytics service disagree on naming, and both have renamed columns
// between seasons.
var (
	IDColumns        = []string{"player_id", "pitcher", "pitcher_id", "mlbam_id", "mlbamid", "mlbam", "xmlbamid", "playerid", "id"}
	NameColumns      = []string{"player_name", "last_name, first_name", "name", "pitcher_name", "player", "full_name"}
	FirstNameColumns = []string{"first_name", "firstname", "name_first"}
	LastNameColumns  = []string{"last_name", "lastname", "name_last"}
	PitchColumns     = []string{"pitch_type", "pitch_code", "pitch", "pitch_name", "pitchtype"}
	SeasonColumns    = []string{"year", "season", "game_year"}
	TeamColumns      = []string{"team", "team_name_alt", "team_name", "team_abbrev", "tm"}
	HandColumns      = []string{"p_throws", "throws", "hand", "pitch_hand"}
)

var nullValues = map[string]bool{"": true, "na": true, "n/a": true, "null": true, "none": true, "nan": true, "-": true, "--": true}

// normalizeHeader folds a header or candidate to lowercase words joined by
// underscores so "Whiff %", "whiff_%" and "WHIFF" all compare equal.
func normalizeHeader(h string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

type Row struct {
	raw   map[string]string
	index map[string]string
}

// NewRow builds a row from a header-keyed map. Headers are taken in sorted
// order; rows read from a file keep the file's column order instead.
func NewRow(raw map[string]string) Row {
	headers := make([]string, 0, len(raw))
	for k := range raw {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = raw[h]
	}
	return newRow(headers, values)
}

func newRow(headers, values []string) Row {
	raw := make(map[string]string, len(headers))
	idx := make(map[string]string, len(headers))
	for i, h := range headers {
		var v string
		if i < len(values) {
			v = values[i]
		}
		if _, ok := raw[h]; !ok {
			raw[h] = v
		}
		nk := normalizeHeader(h)
		// first non-empty value, in column order, wins when two headers
		// normalize alike
		if existing, ok := idx[nk]; ok && strings.TrimSpace(existing) != "" {
			continue
		}
		idx[nk] = v
	}
	return Row{raw: raw, index: idx}
}

// Raw returns the row keyed by original headers.
func (r Row) Raw() map[string]string {
	return r.raw
}

// Get returns the value of the first candidate column that is present and
// non-empty.
func (r Row) Get(candidates ...string) (string, bool) {
	for _, c := range candidates {
		v, ok := r.index[normalizeHeader(c)]
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if nullValues[strings.ToLower(v)] {
			continue
		}
		return v, true
	}
	return "", false
}

// Float is Get followed by ParseFloat. The first candidate that parses wins.
func (r Row) Float(candidates ...string) (*float64, bool) {
	for _, c := range candidates {
		v, ok := r.Get(c)
		if !ok {
			continue
		}
		if f, ok := ParseFloat(v); ok {
			return &f, true
		}
	}
	return nil, false
}

// ParseFloat accepts "12.5", "12.5%", "1,234" and ".305".
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if nullValues[strings.ToLower(s)] {
		return 0, false
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ID returns the numeric pitcher id of the row, if any. Candidates whose
// value isn't numeric (a site's own alphanumeric id) are skipped.
func (r Row) ID() (int, bool) {
	for _, c := range IDColumns {
		v, ok := r.Get(c)
		if !ok {
			continue
		}
		if id, ok := names.ParseID(v); ok {
			return id, true
		}
	}
	return 0, false
}

// Name returns the row's display name, composing first and last name
// columns when the export splits them.
func (r Row) Name() (string, bool) {
	if v, ok := r.Get(NameColumns...); ok {
		return names.DisplayName(v), true
	}
	first, okFirst := r.Get(FirstNameColumns...)
	last, okLast := r.Get(LastNameColumns...)
	if !okFirst && !okLast {
		return "", false
	}
	return strings.TrimSpace(first + " " + last), true
}

type Table struct {
	Path    string
	Headers []string
	Rows    []Row
}

// ReadFile loads a CSV export. A missing file is returned as an error
// wrapping fs.ErrNotExist.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t.Path = path
	return t, nil
}

func Parse(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoHeader
	}

	records, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Headers: records[0], Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, newRow(t.Headers, rec))
	}
	return t, nil
}

// HasColumn reports whether any candidate header is present in the table.
func (t *Table) HasColumn(candidates ...string) bool {
	for _, h := range t.Headers {
		nh := normalizeHeader(h)
		for _, c := range candidates {
			if nh == normalizeHeader(c) {
				return true
			}
		}
	}
	return false
}
