package release

import (
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/require"
)

// TestParseVersion checks accepted formats and the classification of malformed input.
func TestParseVersion(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"1.0.0", "v2.3.4", "1.2.0.0", " 1.2 "} {
		v, err := ParseVersion(raw)
		require.NoError(t, err, raw)
		require.NotNil(t, v)
	}

	for _, raw := range []string{"", "   ", "latest", "1.x.0"} {
		_, err := ParseVersion(raw)
		require.ErrorIs(t, err, ErrVersionParse, raw)
	}
}

// TestNeedsUpdate asserts an update is needed iff remote > local, with absent local always older.
func TestNeedsUpdate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		local  string
		remote string
		want   bool
	}{
		{local: "1.0.0", remote: "1.2.0", want: true},
		{local: "2.0.0", remote: "1.9.0", want: false},
		{local: "1.2.0", remote: "1.2.0", want: false},
		{local: "1.2.0.0", remote: "1.2.0", want: false},
		{local: "1.2.0", remote: "1.2.0.1", want: true},
		{local: "1.10.0", remote: "1.9.9", want: false},
		{local: "1.0.0-beta", remote: "1.0.0", want: true},
		{local: "", remote: "0.0.1", want: true},
	}

	for _, tc := range cases {
		remote, err := ParseVersion(tc.remote)
		require.NoError(t, err)

		var local *version.Version
		if tc.local != "" {
			local, err = ParseVersion(tc.local)
			require.NoError(t, err)
		}

		require.Equal(t, tc.want, NeedsUpdate(local, remote), "%s -> %s", tc.local, tc.remote)
	}

	require.False(t, NeedsUpdate(nil, nil))
}

// TestDescribeVersion checks the status rendering of absent and present versions.
func TestDescribeVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "not installed", DescribeVersion(nil))

	v, err := ParseVersion("1.2.0")
	require.NoError(t, err)
	require.Equal(t, "1.2.0", DescribeVersion(v))
}
