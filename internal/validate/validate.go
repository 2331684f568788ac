package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/names"
	"github.com/dwes123/pitch-arsenal-go/internal/output"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

// UsageTolerance is how far a pitcher's usage total may drift from 100%
// (rounding in the exports) before it's reported.
const UsageTolerance = 2.0

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Key      string   `json:"key"`
	Message  string   `json:"message"`
}

type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

func (r *Report) add(sev Severity, key, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) count(sev Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

func (r *Report) Errors() int   { return r.count(SeverityError) }
func (r *Report) Warnings() int { return r.count(SeverityWarning) }
func (r *Report) OK() bool      { return r.Errors() == 0 }

// Check validates a built output directory. It returns an error only when
// the index itself can't be read; everything else is reported as an issue.
func Check(dir string) (*Report, error) {
	idx, err := output.ReadIndex(dir)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	r := &Report{}
	if len(idx.Pitchers) == 0 {
		r.add(SeverityError, "", "index lists no pitchers")
	}

	indexed := make(map[string]bool, len(idx.Pitchers))
	for _, entry := range idx.Pitchers {
		r.Checked++
		if indexed[entry.Key] {
			r.add(SeverityError, entry.Key, "duplicate index entry")
			continue
		}
		indexed[entry.Key] = true
		checkPitcher(r, dir, entry, idx.Season)
	}

	files, err := os.ReadDir(config.PitchersDir(dir))
	if err == nil {
		for _, f := range files {
			key, ok := strings.CutSuffix(f.Name(), ".json")
			if !ok || f.IsDir() {
				continue
			}
			if !indexed[key] {
				r.add(SeverityWarning, key, "file not listed in index")
			}
		}
	}
	return r, nil
}

func checkPitcher(r *Report, dir string, entry arsenal.IndexEntry, season int) {
	key := entry.Key
	if !names.ValidKey(key) {
		r.add(SeverityError, key, "invalid key")
		return
	}

	p, err := output.ReadPitcher(dir, key)
	if err != nil {
		r.add(SeverityError, key, "unreadable: %v", err)
		return
	}
	if p.Key != key {
		r.add(SeverityError, key, "file key %q does not match index", p.Key)
	}
	if strings.TrimSpace(p.Name) == "" {
		r.add(SeverityError, key, "missing name")
	}
	if p.Season != season {
		r.add(SeverityWarning, key, "season %d differs from index season %d", p.Season, season)
	}
	if len(p.Pitches) == 0 {
		r.add(SeverityError, key, "no pitches")
		return
	}
	if len(p.Pitches) != len(entry.PitchTypes) {
		r.add(SeverityWarning, key, "index lists %d pitch types, file has %d", len(entry.PitchTypes), len(p.Pitches))
	}

	seen := make(map[pitchtype.Code]bool)
	usageTotal, withUsage := 0.0, 0
	for _, pitch := range p.Pitches {
		if !pitchtype.Known(pitch.Code) {
			r.add(SeverityError, key, "unknown pitch code %q", pitch.Code)
		}
		if seen[pitch.Code] {
			r.add(SeverityError, key, "duplicate pitch %s", pitch.Code)
		}
		seen[pitch.Code] = true

		m := pitch.Metrics
		if m.VelocityMPH == nil {
			r.add(SeverityWarning, key, "%s missing velocity", pitch.Code)
		}
		if m.UsagePct != nil {
			withUsage++
			usageTotal += *m.UsagePct
			if *m.UsagePct < 0 || *m.UsagePct > 100 {
				r.add(SeverityError, key, "%s usage %.1f out of range", pitch.Code, *m.UsagePct)
			}
		} else {
			r.add(SeverityWarning, key, "%s missing usage", pitch.Code)
		}
		if m.SpinEfficiencyPct != nil && (*m.SpinEfficiencyPct < 0 || *m.SpinEfficiencyPct > 100) {
			r.add(SeverityWarning, key, "%s spin efficiency %.1f out of range", pitch.Code, *m.SpinEfficiencyPct)
		}
	}
	if withUsage == len(p.Pitches) && math.Abs(usageTotal-100) > UsageTolerance {
		r.add(SeverityWarning, key, "usage sums to %.1f%%", usageTotal)
	}
}

// Render prints the issues as a table followed by a one-line summary.
func (r *Report) Render(w io.Writer) {
	if len(r.Issues) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Severity", "Pitcher", "Issue"})
		for _, i := range r.Issues {
			t.AppendRow(table.Row{i.Severity, i.Key, i.Message})
		}
		t.Render()
	}
	fmt.Fprintf(w, "checked %d pitchers: %d errors, %d warnings\n", r.Checked, r.Errors(), r.Warnings())
}

// JSON renders the report for machine consumers.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
