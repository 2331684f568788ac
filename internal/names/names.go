package names

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var suffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true}

// Letters with no decomposition into a base letter plus marks.
var folded = strings.NewReplacer(
	"ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "đ", "d", "Đ", "D",
	"æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE", "ß", "ss", "þ", "th", "Þ", "Th", "ı", "i",
)

// stripMarks removes combining marks after NFD decomposition: "José" -> "Jose".
func stripMarks(s string) string {
	s = folded.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName folds a display name into the form used for joining rows
// across exports. "Ohtani, Shohei", "Shohei Ohtani" and "SHOHEI  OHTANI"
// all normalize to "shohei ohtani".
func NormalizeName(s string) string {
	s = strings.TrimSpace(stripMarks(s))
	if s == "" {
		return ""
	}
	if last, first, ok := strings.Cut(s, ","); ok {
		s = strings.TrimSpace(first) + " " + strings.TrimSpace(last)
	}

	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// periods, apostrophes and the rest are dropped
	}

	fields := strings.Fields(b.String())
	out := fields[:0]
	for _, f := range fields {
		if suffixes[f] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// ParseID reads a numeric player id. Spreadsheet exports sometimes write
// ids as floats ("660271.0").
func ParseID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

const maxSlug = 64

// Slug is the file-safe key used for a pitcher without a numeric id. Only
// [a-z0-9] survive; a name with nothing left (all non-Latin script) gets a
// stable hash instead.
func Slug(name string) string {
	var words []string
	for _, f := range strings.Fields(NormalizeName(name)) {
		var b strings.Builder
		for _, r := range f {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			words = append(words, b.String())
		}
	}
	slug := strings.Join(words, "-")
	if len(slug) > maxSlug {
		slug = strings.TrimRight(slug[:maxSlug], "-")
	}
	if slug == "" {
		name = strings.TrimSpace(name)
		if name == "" {
			return ""
		}
		h := fnv.New32a()
		h.Write([]byte(name))
		return fmt.Sprintf("p-%08x", h.Sum32())
	}
	return slug
}

// DisplayName turns "Last, First" into "First Last" and leaves other
// spellings alone.
func DisplayName(s string) string {
	s = strings.TrimSpace(s)
	if last, first, ok := strings.Cut(s, ","); ok {
		return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	}
	return strings.Join(strings.Fields(s), " ")
}

// ValidKey reports whether key is safe to use as a file name.
func ValidKey(key string) bool {
	if key == "" || len(key) > 80 {
		return false
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
			return false
		}
	}
	return key[0] != '-'
}
