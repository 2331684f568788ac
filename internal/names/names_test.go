package names

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Shohei Ohtani":           "shohei ohtani",
		"Ohtani, Shohei":          "shohei ohtani",
		"  SHOHEI   OHTANI ":      "shohei ohtani",
		"José Berríos":            "jose berrios",
		"Berríos, José":           "jose berrios",
		"Lance McCullers Jr.":     "lance mccullers",
		"McCullers Jr., Lance":    "lance mccullers",
		"Luis Ortiz-Cortes":       "luis ortiz cortes",
		"Travis d'Arnaud":         "travis darnaud",
		"A.J. Puk":                "aj puk",
		"Michael King III":        "michael king",
		"":                        "",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeName(in), in)
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("660271")
	require.True(t, ok)
	require.Equal(t, 660271, id)

	id, ok = ParseID(" 660271.0 ")
	require.True(t, ok)
	require.Equal(t, 660271, id)

	for _, s := range []string{"", "abc", "0", "-5", "12.5"} {
		_, ok := ParseID(s)
		require.False(t, ok, s)
	}
}

func TestSlugAndValidKey(t *testing.T) {
	require.Equal(t, "jose-berrios", Slug("Berríos, José"))
	require.True(t, ValidKey("jose-berrios"))
	require.True(t, ValidKey("660271"))
	require.False(t, ValidKey("../etc/passwd"))
	require.False(t, ValidKey("-x"))
	require.False(t, ValidKey(""))
	require.False(t, ValidKey("Upper"))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Shohei Ohtani", DisplayName("Ohtani, Shohei"))
	require.Equal(t, "Shohei Ohtani", DisplayName(" Shohei  Ohtani "))
}

func TestSlug_NonASCIINames(t *testing.T) {
	require.Equal(t, "soren-odegaard", Slug("Søren Ødegaard"))
	require.Equal(t, "soren-odegaard", Slug("Ødegaard, Søren"))
	require.Equal(t, "lukasz-nowak", Slug("Łukasz Nowak"))
	require.Equal(t, "soren odegaard", NormalizeName("Soren Odegaard"))
	require.Equal(t, NormalizeName("Søren Ødegaard"), NormalizeName("Soren Odegaard"))

	kanji := Slug("大谷 翔平")
	require.True(t, ValidKey(kanji), kanji)
	require.Equal(t, kanji, Slug("大谷 翔平"))
	require.NotEqual(t, kanji, Slug("山本 由伸"))

	require.Equal(t, "", Slug("  "))
	require.True(t, ValidKey(Slug(strings.Repeat("Longname ", 20))))
}
