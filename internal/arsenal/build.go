package arsenal

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dwes123/pitch-arsenal-go/internal/csvsource"
	"github.com/dwes123/pitch-arsenal-go/internal/matcher"
	"github.com/dwes123/pitch-arsenal-go/internal/names"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

var ErrNoCombinedData = errors.New("no combined export found for the target or fallback seasons")

type Options struct {
	Segment        string
	FuzzyThreshold float64
	Now            func() time.Time
}

type Stats struct {
	Rows               int            `json:"rows"`
	Skipped            int            `json:"skipped"`
	UnknownPitch       int            `json:"unknown_pitch"`
	Pitchers           int            `json:"pitchers"`
	Pitches            int            `json:"pitches"`
	EnrichmentMatches  map[string]int `json:"enrichment_matches"`
	EnrichmentFallback int            `json:"enrichment_fallback"`
	SpinMatches        map[string]int `json:"spin_matches"`
	SpinFallback       int            `json:"spin_fallback"`
}

type Result struct {
	Season         int
	CombinedSeason int
	Pitchers       []*Pitcher
	Index          Index
	Stats          Stats
}

// seasonLookup holds the lazily built match indexes for one season.
type seasonLookup struct {
	season     int
	threshold  float64
	enrichment map[pitchtype.Code]*csvsource.Table
	enrichIx   map[pitchtype.Code]*matcher.Index[csvsource.Row]
	spinIx     *matcher.Index[map[pitchtype.Code]float64]
}

func newSeasonLookup(src SeasonSources, threshold float64) *seasonLookup {
	sl := &seasonLookup{
		season:     src.Season,
		threshold:  threshold,
		enrichment: src.Enrichment,
		enrichIx:   make(map[pitchtype.Code]*matcher.Index[csvsource.Row]),
	}
	if src.Spin != nil {
		sl.spinIx = buildSpinIndex(src.Spin, src.Season, threshold)
	}
	return sl
}

func (sl *seasonLookup) enrichmentRow(code pitchtype.Code, id matcher.Ident) (csvsource.Row, matcher.Match, bool) {
	ix, ok := sl.enrichIx[code]
	if !ok {
		ix = matcher.NewIndex[csvsource.Row](sl.threshold)
		if t := sl.enrichment[code]; t != nil {
			for _, row := range t.Rows {
				if !rowInSeason(row, sl.season) {
					continue
				}
				if rid, ok := rowIdent(row); ok {
					ix.Add(rid, row)
				}
			}
		}
		sl.enrichIx[code] = ix
	}
	return ix.Lookup(id)
}

func (sl *seasonLookup) spin(code pitchtype.Code, id matcher.Ident) (float64, matcher.Match, bool) {
	if sl.spinIx == nil {
		return 0, matcher.NoMatch, false
	}
	values, how, ok := sl.spinIx.Lookup(id)
	if !ok {
		return 0, matcher.NoMatch, false
	}
	v, ok := values[code]
	if !ok {
		return 0, matcher.NoMatch, false
	}
	return v, how, true
}

func rowIdent(row csvsource.Row) (matcher.Ident, bool) {
	var id matcher.Ident
	if n, ok := row.ID(); ok {
		id.ID = n
	}
	if name, ok := row.Name(); ok {
		id.Name = names.NormalizeName(name)
	}
	return id, id.ID != 0 || id.Name != ""
}

// rowInSeason keeps rows of exports that span several seasons. Rows without
// a season column belong to whatever season the file was filed under.
func rowInSeason(row csvsource.Row, season int) bool {
	v, ok := row.Get(csvsource.SeasonColumns...)
	if !ok {
		return true
	}
	n, err := strconv.Atoi(v)
	return err != nil || n == season
}

func spinPercent(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}

// buildSpinIndex accepts both layouts the spin export has shipped in: wide
// (one row per pitcher, an active_spin_<pitch> column per pitch type) and
// long (one row per pitcher and pitch type).
func buildSpinIndex(t *csvsource.Table, season int, threshold float64) *matcher.Index[map[pitchtype.Code]float64] {
	ix := matcher.NewIndex[map[pitchtype.Code]float64](threshold)

	wide := map[string]pitchtype.Code{}
	for _, h := range t.Headers {
		if code, ok := pitchtype.SpinColumn(h); ok {
			wide[h] = code
		}
	}

	if len(wide) > 0 {
		for _, row := range t.Rows {
			if !rowInSeason(row, season) {
				continue
			}
			id, ok := rowIdent(row)
			if !ok {
				continue
			}
			values := make(map[pitchtype.Code]float64)
			for h, code := range wide {
				if _, seen := values[code]; seen {
					continue
				}
				if v, ok := row.Float(h); ok {
					values[code] = spinPercent(*v)
				}
			}
			ix.Add(id, values)
		}
		return ix
	}

	type pending struct {
		id     matcher.Ident
		values map[pitchtype.Code]float64
	}
	var order []string
	byPitcher := make(map[string]*pending)
	for _, row := range t.Rows {
		if !rowInSeason(row, season) {
			continue
		}
		id, ok := rowIdent(row)
		if !ok {
			continue
		}
		raw, ok := row.Get(csvsource.PitchColumns...)
		if !ok {
			continue
		}
		code, ok := pitchtype.Normalize(raw)
		if !ok {
			continue
		}
		v, ok := row.Float("spin_efficiency", "active_spin", "active_spin_pct", "spin_eff")
		if !ok {
			continue
		}
		key := identKey(id)
		p, ok := byPitcher[key]
		if !ok {
			p = &pending{id: id, values: make(map[pitchtype.Code]float64)}
			byPitcher[key] = p
			order = append(order, key)
		}
		if _, seen := p.values[code]; !seen {
			p.values[code] = spinPercent(*v)
		}
	}
	for _, key := range order {
		ix.Add(byPitcher[key].id, byPitcher[key].values)
	}
	return ix
}

func identKey(id matcher.Ident) string {
	if id.ID != 0 {
		return "id:" + strconv.Itoa(id.ID)
	}
	return "name:" + id.Name
}

// pitcherBuilder groups combined rows into pitchers.
type pitcherBuilder struct {
	pitcher *Pitcher
	ident   matcher.Ident
	pitches map[pitchtype.Code]*Pitch
}

// Build joins the combined export with the per-pitch-type and spin exports.
//
// Combined rows for the same pitcher and pitch are merged field by field,
// later non-empty values overwriting earlier ones. Enrichment and spin are
// looked up in the target season first and then in each fallback season in
// order; the first season with a match wins, and only fills metrics the
// combined row left empty.
func Build(target SeasonSources, fallbacks []SeasonSources, opts Options) (*Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now().UTC()

	combined, combinedSeason := target.Combined, target.Season
	if combined == nil {
		for _, fb := range fallbacks {
			if fb.Combined != nil {
				combined, combinedSeason = fb.Combined, fb.Season
				slog.Warn("combined export missing for target season, using fallback",
					"season", target.Season, "fallback", fb.Season)
				break
			}
		}
	}
	if combined == nil {
		return nil, ErrNoCombinedData
	}

	res := &Result{
		Season:         target.Season,
		CombinedSeason: combinedSeason,
		Stats: Stats{
			EnrichmentMatches: make(map[string]int),
			SpinMatches:       make(map[string]int),
		},
	}

	var order []*pitcherBuilder
	byID := make(map[int]*pitcherBuilder)
	byName := make(map[string]*pitcherBuilder)

	for _, row := range combined.Rows {
		if !rowInSeason(row, combinedSeason) {
			continue
		}
		res.Stats.Rows++

		id, ok := rowIdent(row)
		if !ok {
			res.Stats.Skipped++
			continue
		}
		raw, _ := row.Get(csvsource.PitchColumns...)
		code, ok := pitchtype.Normalize(raw)
		if !ok {
			res.Stats.UnknownPitch++
			slog.Debug("unknown pitch type in combined export", "pitch", raw, "pitcher", id.Name)
			continue
		}

		var pb *pitcherBuilder
		if id.ID != 0 {
			pb = byID[id.ID]
		}
		if pb == nil && id.Name != "" {
			pb = byName[id.Name]
			// same name, different id: two pitchers
			if pb != nil && pb.ident.ID != 0 && id.ID != 0 {
				pb = nil
			}
		}
		if pb == nil {
			pb = newPitcherBuilder(id, row, target.Season, opts.Segment, now)
			if pb == nil {
				res.Stats.Skipped++
				continue
			}
			order = append(order, pb)
		}
		if id.ID != 0 {
			if _, taken := byID[id.ID]; !taken {
				byID[id.ID] = pb
			}
			if pb.ident.ID == 0 {
				// a name-only row came first; the id still decides the key
				pb.ident.ID = id.ID
				pb.pitcher.MLBAMID = id.ID
				pb.pitcher.Key = strconv.Itoa(id.ID)
			}
		}
		if id.Name != "" {
			if _, taken := byName[id.Name]; !taken {
				byName[id.Name] = pb
			}
		}

		if team, ok := row.Get(csvsource.TeamColumns...); ok {
			pb.pitcher.Team = team
		}
		if hand, ok := row.Get(csvsource.HandColumns...); ok {
			pb.pitcher.Throws = hand
		}

		pitch := pb.pitches[code]
		if pitch == nil {
			pitch = newPitch(code, combinedSeason)
			pb.pitches[code] = pitch
		}
		fillMetrics(&pitch.Metrics, row, true)
	}

	lookups := make([]*seasonLookup, 0, len(fallbacks)+1)
	lookups = append(lookups, newSeasonLookup(target, opts.FuzzyThreshold))
	for _, fb := range fallbacks {
		lookups = append(lookups, newSeasonLookup(fb, opts.FuzzyThreshold))
	}

	for _, pb := range order {
		for code, pitch := range pb.pitches {
			enrich(res, lookups, pb.ident, code, pitch, target.Season)
		}
		res.Pitchers = append(res.Pitchers, pb.finish())
	}

	sort.SliceStable(res.Pitchers, func(i, j int) bool {
		a, b := res.Pitchers[i], res.Pitchers[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Key < b.Key
	})

	res.Index = Index{Season: target.Season, Segment: opts.Segment, GeneratedAt: now}
	res.Index.Pitchers = make([]IndexEntry, 0, len(res.Pitchers))
	for _, p := range res.Pitchers {
		res.Index.Pitchers = append(res.Index.Pitchers, p.IndexEntry())
		res.Stats.Pitches += len(p.Pitches)
	}
	res.Stats.Pitchers = len(res.Pitchers)
	return res, nil
}

func newPitcherBuilder(id matcher.Ident, row csvsource.Row, season int, segment string, now time.Time) *pitcherBuilder {
	name, _ := row.Name()
	key := names.Slug(name)
	if id.ID != 0 {
		key = strconv.Itoa(id.ID)
	}
	if key == "" || !names.ValidKey(key) {
		return nil
	}
	if name == "" {
		name = key
	}
	return &pitcherBuilder{
		ident: id,
		pitcher: &Pitcher{
			Key:       key,
			MLBAMID:   id.ID,
			Name:      name,
			Season:    season,
			Segment:   segment,
			UpdatedAt: now,
		},
		pitches: make(map[pitchtype.Code]*Pitch),
	}
}

func newPitch(code pitchtype.Code, season int) *Pitch {
	info, _ := pitchtype.Lookup(code)
	return &Pitch{
		Code:    code,
		Name:    info.Name,
		Family:  info.Family,
		Color:   info.Color,
		Sources: PitchSources{CombinedSeason: season},
	}
}

func enrich(res *Result, lookups []*seasonLookup, id matcher.Ident, code pitchtype.Code, pitch *Pitch, targetSeason int) {
	for _, sl := range lookups {
		row, how, ok := sl.enrichmentRow(code, id)
		if !ok {
			continue
		}
		fillMetrics(&pitch.Metrics, row, false)
		pitch.Sources.EnrichmentSeason = sl.season
		pitch.Sources.EnrichmentMatch = how.String()
		res.Stats.EnrichmentMatches[how.String()]++
		if sl.season != targetSeason {
			res.Stats.EnrichmentFallback++
		}
		break
	}

	for _, sl := range lookups {
		v, how, ok := sl.spin(code, id)
		if !ok {
			continue
		}
		if pitch.Metrics.SpinEfficiencyPct == nil {
			pitch.Metrics.SpinEfficiencyPct = ptr(v)
		}
		pitch.Sources.SpinSeason = sl.season
		pitch.Sources.SpinMatch = how.String()
		res.Stats.SpinMatches[how.String()]++
		if sl.season != targetSeason {
			res.Stats.SpinFallback++
		}
		break
	}
}

func (pb *pitcherBuilder) finish() *Pitcher {
	p := pb.pitcher
	p.Pitches = make([]Pitch, 0, len(pb.pitches))
	for _, pitch := range pb.pitches {
		p.Pitches = append(p.Pitches, *pitch)
	}

	normalizeUsage(p.Pitches)

	total := 0.0
	for _, pitch := range p.Pitches {
		if pitch.Metrics.Pitches != nil {
			total += *pitch.Metrics.Pitches
		}
	}
	p.TotalPitches = int(math.Round(total))

	sort.SliceStable(p.Pitches, func(i, j int) bool {
		ui, uj := p.Pitches[i].Metrics.UsagePct, p.Pitches[j].Metrics.UsagePct
		switch {
		case ui != nil && uj != nil && *ui != *uj:
			return *ui > *uj
		case ui != nil && uj == nil:
			return true
		case ui == nil && uj != nil:
			return false
		}
		return pitchtype.Order(p.Pitches[i].Code) < pitchtype.Order(p.Pitches[j].Code)
	})
	return p
}

// normalizeUsage fills usage from pitch counts when no pitch has a usage
// value, and scales usage given as fractions (the present values sum to at
// most ~1) to percent.
func normalizeUsage(pitches []Pitch) {
	var sumUsage, maxUsage, sumCount float64
	withUsage, withCount := 0, 0
	for _, p := range pitches {
		if p.Metrics.UsagePct != nil {
			withUsage++
			sumUsage += *p.Metrics.UsagePct
			maxUsage = max(maxUsage, *p.Metrics.UsagePct)
		}
		if p.Metrics.Pitches != nil {
			withCount++
			sumCount += *p.Metrics.Pitches
		}
	}

	switch {
	case withUsage == 0 && withCount == len(pitches) && sumCount > 0:
		for i := range pitches {
			pitches[i].Metrics.UsagePct = ptr(round1(*pitches[i].Metrics.Pitches / sumCount * 100))
		}
	case withUsage > 0 && sumUsage > 0 && sumUsage <= 1.5 && maxUsage <= 1:
		for i := range pitches {
			if u := pitches[i].Metrics.UsagePct; u != nil {
				pitches[i].Metrics.UsagePct = ptr(round1(*u * 100))
			}
		}
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
