package matcher

import (
	"github.com/antzucaro/matchr"
)

// DefaultThreshold is the minimum Jaro-Winkler similarity accepted for a
// fuzzy name match. Below ~0.9 distinct pitchers with shared surnames start
// to collide.
const DefaultThreshold = 0.92

type Match int

const (
	NoMatch Match = iota
	ByID
	ByName
	ByFuzzy
)

func (m Match) String() string {
	switch m {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Ident identifies a pitcher in one export. ID is 0 when the export has no
// numeric id column; Name is already normalized (see names.NormalizeName).
type Ident struct {
	ID   int
	Name string
}

type entry[T any] struct {
	ident Ident
	value T
}

// Index resolves idents to values. The first entry added for an id or a
// name is kept; later duplicates are ignored.
type Index[T any] struct {
	threshold float64
	entries   []entry[T]
	byID      map[int]int
	byName    map[string]int
}

func NewIndex[T any](threshold float64) *Index[T] {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Index[T]{
		threshold: threshold,
		byID:      make(map[int]int),
		byName:    make(map[string]int),
	}
}

func (ix *Index[T]) Add(id Ident, value T) {
	if id.ID == 0 && id.Name == "" {
		return
	}
	pos := len(ix.entries)
	added := false
	if id.ID != 0 {
		if _, dup := ix.byID[id.ID]; !dup {
			ix.byID[id.ID] = pos
			added = true
		}
	}
	if id.Name != "" {
		if _, dup := ix.byName[id.Name]; !dup {
			ix.byName[id.Name] = pos
			added = true
		}
	}
	if added {
		ix.entries = append(ix.entries, entry[T]{ident: id, value: value})
	}
}

func (ix *Index[T]) Len() int {
	return len(ix.entries)
}

// conflicts reports whether two idents carry different numeric ids. Ids are
// authoritative: a name match never overrides an id mismatch.
func conflicts(a, b Ident) bool {
	return a.ID != 0 && b.ID != 0 && a.ID != b.ID
}

// Lookup tries the id first, then the exact normalized name, then the most
// similar name above the threshold. A fuzzy tie at the best score is
// treated as no match.
func (ix *Index[T]) Lookup(probe Ident) (T, Match, bool) {
	var zero T
	if probe.ID != 0 {
		if pos, ok := ix.byID[probe.ID]; ok {
			return ix.entries[pos].value, ByID, true
		}
	}
	if probe.Name == "" {
		return zero, NoMatch, false
	}
	if pos, ok := ix.byName[probe.Name]; ok && !conflicts(probe, ix.entries[pos].ident) {
		return ix.entries[pos].value, ByName, true
	}

	best, bestScore, tied := -1, 0.0, false
	for i, e := range ix.entries {
		if e.ident.Name == "" || conflicts(probe, e.ident) {
			continue
		}
		score := matchr.JaroWinkler(probe.Name, e.ident.Name, false)
		switch {
		case score > bestScore:
			best, bestScore, tied = i, score, false
		case score == bestScore && best >= 0 && e.ident.Name != ix.entries[best].ident.Name:
			tied = true
		}
	}
	if best < 0 || tied || bestScore < ix.threshold {
		return zero, NoMatch, false
	}
	return ix.entries[best].value, ByFuzzy, true
}
