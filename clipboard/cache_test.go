package clipboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	x11 "x11conn"
)

func Test_SelectionCache_PutThenGet(t *testing.T) {
	c := newSelectionCache()
	c.put(x11.AtomPrimary, x11.AtomString, []byte("hello"))

	data, ok := c.get(x11.AtomPrimary, x11.AtomString)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), data)
}

func Test_SelectionCache_TargetsForListsAllCachedTargets(t *testing.T) {
	c := newSelectionCache()
	c.put(x11.AtomPrimary, x11.AtomString, []byte("a"))
	c.put(x11.AtomPrimary, x11.AtomAtom, []byte("b"))
	c.put(x11.AtomSecondary, x11.AtomString, []byte("c"))

	targets := c.targetsFor(x11.AtomPrimary)
	require.ElementsMatch(t, []x11.Atom{x11.AtomString, x11.AtomAtom}, targets)
}

func Test_SelectionCache_ClearErasesOnlyThatSelection(t *testing.T) {
	c := newSelectionCache()
	c.put(x11.AtomPrimary, x11.AtomString, []byte("a"))
	c.put(x11.AtomSecondary, x11.AtomString, []byte("b"))

	c.clear(x11.AtomPrimary)

	_, ok := c.get(x11.AtomPrimary, x11.AtomString)
	require.False(t, ok)
	require.True(t, c.isEmpty(x11.AtomPrimary))

	data, ok := c.get(x11.AtomSecondary, x11.AtomString)
	require.True(t, ok)
	require.Equal(t, []byte("b"), data)
}

func Test_SelectionCache_IsEmptyOnUnknownSelection(t *testing.T) {
	c := newSelectionCache()
	require.True(t, c.isEmpty(x11.AtomSecondary))
}
