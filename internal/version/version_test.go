package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short, Full and UserAgent return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.True(t, strings.HasPrefix(UserAgent(), Name+"/"))
	require.True(t, strings.HasSuffix(UserAgent(), Short()))
}
