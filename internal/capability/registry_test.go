package capability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryMembership(t *testing.T) {
	for _, c := range All() {
		require.True(t, IsValid(c), "registered capability %q must validate", c)
	}
	require.False(t, IsValid("delete_database"))
	require.False(t, IsValid(""))
	require.False(t, IsValid("Manage_Employees"), "membership is case sensitive")
}

func TestRegistryCategoriesCoverAllCapabilities(t *testing.T) {
	seen := make(map[Capability]int)
	for _, cat := range Categories() {
		require.NotEmpty(t, cat.Name)
		for _, c := range cat.Capabilities {
			seen[c]++
		}
	}
	require.Len(t, seen, len(All()))
	for c, count := range seen {
		require.Equal(t, 1, count, "capability %q appears in exactly one category", c)
	}
}
