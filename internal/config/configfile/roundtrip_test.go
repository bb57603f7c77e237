package configfile_test

import (
	"testing"

	"gitconf/internal/config/configfile"
	"gitconf/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRoundTripGenerated(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		entries := testutil.NewEntryGenerator(seed, 4).Entries(40)

		text := configfile.Serialize(entries)
		got, err := configfile.Parse(text)
		require.NoError(t, err, "seed %d:\n%s", seed, text)

		if diff := cmp.Diff(entries, got); diff != "" {
			t.Fatalf("seed %d: round trip changed entries (-want +got):\n%s\ntext:\n%s", seed, diff, text)
		}
	}
}
