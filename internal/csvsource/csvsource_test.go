package csvsource

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_GuessesColumns(t *testing.T) {
	data := "\xef\xbb\xbf\"last_name, first_name\",player_id,pitch_type,Whiff %,velocity\n" +
		"\"Skubal, Tarik\",669373,FF,24.1%,97.6\n" +
		"\"Skubal, Tarik\",669373,CH,NA,87.9\n"

	table, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	require.True(t, table.HasColumn("whiff_percent", "whiff %"))

	row := table.Rows[0]
	id, ok := row.ID()
	require.True(t, ok)
	require.Equal(t, 669373, id)

	name, ok := row.Name()
	require.True(t, ok)
	require.Equal(t, "Tarik Skubal", name)

	pitch, ok := row.Get(PitchColumns...)
	require.True(t, ok)
	require.Equal(t, "FF", pitch)

	whiff, ok := row.Float("whiff_pct", "whiff")
	require.True(t, ok)
	require.InDelta(t, 24.1, *whiff, 1e-9)

	_, ok = table.Rows[1].Float("whiff")
	require.False(t, ok)
}

func TestRow_NameFromSplitColumns(t *testing.T) {
	row := NewRow(map[string]string{"first_name": "Paul", "last_name": "Skenes"})
	name, ok := row.Name()
	require.True(t, ok)
	require.Equal(t, "Paul Skenes", name)

	_, ok = NewRow(map[string]string{"team": "PIT"}).Name()
	require.False(t, ok)
}

func TestParseFloat(t *testing.T) {
	for in, want := range map[string]float64{"12.5": 12.5, " 12.5% ": 12.5, "1,234": 1234, ".305": 0.305, "-1.2": -1.2} {
		got, ok := ParseFloat(in)
		require.True(t, ok, in)
		require.InDelta(t, want, got, 1e-9, in)
	}
	for _, in := range []string{"", "NA", "null", "--", "abc"} {
		_, ok := ParseFloat(in)
		require.False(t, ok, in)
	}
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.csv"))
	require.True(t, errors.Is(err, fs.ErrNotExist))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o644))
	_, err = ReadFile(empty)
	require.ErrorIs(t, err, ErrNoHeader)

	ok := filepath.Join(dir, "ok.csv")
	require.NoError(t, os.WriteFile(ok, []byte("name,pitch_type\nA B,SL\n"), 0o644))
	table, err := ReadFile(ok)
	require.NoError(t, err)
	require.Equal(t, ok, table.Path)
	require.Equal(t, []string{"name", "pitch_type"}, table.Headers)
}

func TestParse_DuplicateHeadersKeepColumnOrder(t *testing.T) {
	table, err := Parse([]byte("Player Name,player_name,pitch_type\nTarik Skubal,Skubal Tarik,FF\n,Logan Webb,SI\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"Player Name", "player_name", "pitch_type"}, table.Headers)

	for i := 0; i < 20; i++ {
		row := NewRow(table.Rows[0].Raw())
		v, ok := row.Get("player_name")
		require.True(t, ok)
		require.Equal(t, "Tarik Skubal", v)
	}
	v, ok := table.Rows[0].Get("player_name")
	require.True(t, ok)
	require.Equal(t, "Tarik Skubal", v)

	// an empty earlier column falls through to the later one
	v, ok = table.Rows[1].Get("player_name")
	require.True(t, ok)
	require.Equal(t, "Logan Webb", v)
}

func TestRow_IDSkipsNonNumericCandidates(t *testing.T) {
	table, err := Parse([]byte("player_id,mlbam_id,player_name\nsa3011318,669373,Tarik Skubal\n"))
	require.NoError(t, err)
	id, ok := table.Rows[0].ID()
	require.True(t, ok)
	require.Equal(t, 669373, id)

	table, err = Parse([]byte("player_id,player_name\nsa3011318,Tarik Skubal\n"))
	require.NoError(t, err)
	_, ok = table.Rows[0].ID()
	require.False(t, ok)
}
