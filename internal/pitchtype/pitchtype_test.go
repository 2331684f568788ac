package pitchtype

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]Code{
		"FF":              "FF",
		"ff":              "FF",
		" FA ":            "FF",
		"4-Seam Fastball": "FF",
		"Four-Seamer":     "FF",
		"FT":              "SI",
		"Sweeper":         "ST",
		"Knuckle Curve":   "KC",
		"Split-Finger":    "FS",
		"changeup":        "CH",
		"CS":              "CU",
	}
	for raw, want := range cases {
		got, ok := Normalize(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "XX", "Gyroball", "--"} {
		_, ok := Normalize(raw)
		require.False(t, ok, raw)
	}
}

func TestSpinColumn(t *testing.T) {
	code, ok := SpinColumn("active_spin_fourseam")
	require.True(t, ok)
	require.Equal(t, Code("FF"), code)

	code, ok = SpinColumn("Active_Spin_Changeup")
	require.True(t, ok)
	require.Equal(t, Code("CH"), code)

	_, ok = SpinColumn("last_name")
	require.False(t, ok)
	_, ok = SpinColumn("active_spin_gyro")
	require.False(t, ok)
}

func TestOrderAndLookup(t *testing.T) {
	require.Less(t, Order("FF"), Order("SL"))
	require.Less(t, Order("SL"), Order("CH"))
	require.Equal(t, len(Codes()), Order("ZZ"))

	info, ok := Lookup("ST")
	require.True(t, ok)
	require.Equal(t, Breaking, info.Family)
}

func TestLoadOverrides(t *testing.T) {
	saved := All()
	t.Cleanup(func() {
		copy(catalog, saved)
		reindex()
	})

	path := filepath.Join(t.TempDir(), "pitches.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pitches:\n  - code: ch\n    name: Change\n    color: \"#000000\"\n"), 0o644))
	require.NoError(t, LoadOverrides(path))

	info, _ := Lookup("CH")
	require.Equal(t, "Change", info.Name)
	require.Equal(t, "#000000", info.Color)
	require.Equal(t, Offspeed, info.Family)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pitches:\n  - code: QQ\n"), 0o644))
	require.Error(t, LoadOverrides(bad))
}
