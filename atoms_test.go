package x11conn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AtomCache_PredefinedAtomsResolveAtConstruction(t *testing.T) {
	c := newAtomCache()

	atom, ok := c.lookupName("STRING")
	require.True(t, ok)
	require.Equal(t, AtomString, atom)

	name, ok := c.lookupAtom(AtomWMName)
	require.True(t, ok)
	require.Equal(t, "WM_NAME", name)
}

func Test_AtomCache_PutThenLookupBothDirections(t *testing.T) {
	c := newAtomCache()
	c.put("_NET_WM_NAME", Atom(500))

	atom, ok := c.lookupName("_NET_WM_NAME")
	require.True(t, ok)
	require.Equal(t, Atom(500), atom)

	name, ok := c.lookupAtom(Atom(500))
	require.True(t, ok)
	require.Equal(t, "_NET_WM_NAME", name)
}

func Test_AtomCache_UnknownNameMisses(t *testing.T) {
	c := newAtomCache()
	_, ok := c.lookupName("_NOT_INTERNED_YET")
	require.False(t, ok)
}

func Test_Atom_NoneAndAnyShareZeroValue(t *testing.T) {
	require.Equal(t, AtomNone, AtomAny)
	require.Equal(t, Atom(0), AtomNone)
}
