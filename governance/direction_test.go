package governance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSupportCodes(t *testing.T) {
	// The Governor convention puts Against at 0, so codes are not the ballot
	// choice index minus one.
	code, ok := SupportCode(DirectionFor)
	require.True(t, ok)
	require.Equal(t, uint8(1), code)

	code, ok = SupportCode(DirectionAgainst)
	require.True(t, ok)
	require.Equal(t, uint8(0), code)

	code, ok = SupportCode(DirectionAbstain)
	require.True(t, ok)
	require.Equal(t, uint8(2), code)

	_, ok = SupportCode(Direction("Maybe"))
	require.False(t, ok)
}

func TestDirectionForChoice(t *testing.T) {
	require.Equal(t, DirectionFor, DirectionForChoice(1))
	require.Equal(t, DirectionAgainst, DirectionForChoice(2))
	require.Equal(t, DirectionAbstain, DirectionForChoice(3))
	require.Equal(t, DirectionAbstain, DirectionForChoice(0))
}
