package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_Deterministic(t *testing.T) {
	require.Equal(t, ID("entity-1"), ID("entity-1"))
	require.NotEqual(t, ID("entity-1"), ID("entity-2"))
}

func TestID_MatchesSum(t *testing.T) {
	require.Equal(t, ID("graphcol"), Sum([]byte("graphcol")))
}

func TestID_EmptyString(t *testing.T) {
	require.Equal(t, ID(""), Sum(nil))
}
