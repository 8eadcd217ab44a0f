package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheGenerations(t *testing.T) {
	t.Parallel()

	c := NewCache()
	require.EqualValues(t, 0, c.Generation(KeyBoards))

	seen := c.Generation(KeyBoards)
	require.False(t, c.Stale(KeyBoards, seen))

	c.Invalidate(KeyBoards)
	require.True(t, c.Stale(KeyBoards, seen))
	require.EqualValues(t, 1, c.Generation(KeyBoards))

	// catching up clears staleness
	seen = c.Generation(KeyBoards)
	require.False(t, c.Stale(KeyBoards, seen))
}

func TestCacheKeysAreIndependent(t *testing.T) {
	t.Parallel()

	c := NewCache()
	c.Invalidate(CardsKey("b1"))
	require.EqualValues(t, 1, c.Generation(CardsKey("b1")))
	require.EqualValues(t, 0, c.Generation(CardsKey("all")))
	require.EqualValues(t, 0, c.Generation(KeyBoards))
}
