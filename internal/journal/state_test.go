package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityRec(name string) *Record {
	return &Record{Event: EventCommander, Identity: &Identity{Name: name}}
}

func locationRec(system string, coords *[3]float64) *Record {
	return &Record{Event: EventFSDJump, Location: &Location{System: system, Coords: coords}}
}

func TestState_Empty(t *testing.T) {
	st := NewState()
	snap := st.Snapshot()
	assert.Equal(t, Unresolved, snap.Commander)
	assert.Empty(t, snap.System)
	assert.Nil(t, snap.Coords)
	assert.Zero(t, snap.Version)
}

func TestState_IdentityLastWriterWins(t *testing.T) {
	st := NewState()

	assert.True(t, st.Apply(identityRec("Alice")))
	assert.Equal(t, "Alice", st.Snapshot().Commander)

	// A process restart under a different identity always wins.
	assert.True(t, st.Apply(identityRec("Bob")))
	snap := st.Snapshot()
	assert.Equal(t, "Bob", snap.Commander)
	assert.Equal(t, uint64(2), snap.Version)
}

func TestState_IdentityMonotonic(t *testing.T) {
	st := NewState()
	require.True(t, st.Apply(identityRec("Alice")))

	// Many events without identity never revert the commander.
	st.Apply(locationRec("Sol", &[3]float64{0, 0, 0}))
	st.Apply(&Record{Event: "Scan"})
	st.Apply(locationRec("Colonia", nil))

	assert.Equal(t, "Alice", st.Snapshot().Commander)
}

func TestState_CoordinatePreservation(t *testing.T) {
	st := NewState()
	require.True(t, st.Apply(locationRec("Sol", &[3]float64{1, 2, 3})))
	v := st.Snapshot().Version

	// Name-only event updates the system but keeps the old coordinate.
	require.True(t, st.Apply(locationRec("Colonia", nil)))
	snap := st.Snapshot()
	assert.Equal(t, "Colonia", snap.System)
	require.NotNil(t, snap.Coords)
	assert.Equal(t, [3]float64{1, 2, 3}, *snap.Coords)
	assert.Equal(t, v+1, snap.Version)
}

func TestState_CoordsUpdatedAtomicallyWithSystem(t *testing.T) {
	st := NewState()
	st.Apply(locationRec("Sol", &[3]float64{0, 0, 0}))
	st.Apply(locationRec("Colonia", &[3]float64{-9530.5, -910.28, 19808.12}))

	snap := st.Snapshot()
	assert.Equal(t, "Colonia", snap.System)
	assert.Equal(t, [3]float64{-9530.5, -910.28, 19808.12}, *snap.Coords)
}

func TestState_NoChangeNoVersionBump(t *testing.T) {
	st := NewState()
	require.True(t, st.Apply(identityRec("Alice")))
	v := st.Snapshot().Version

	assert.False(t, st.Apply(identityRec("Alice")))
	assert.False(t, st.Apply(&Record{Event: "Music"}))
	assert.False(t, st.Apply(nil))
	assert.Equal(t, v, st.Snapshot().Version)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	st := NewState()
	st.Apply(locationRec("Sol", &[3]float64{1, 1, 1}))

	snap := st.Snapshot()
	snap.Coords[0] = 99
	snap.Commander = "tampered"

	fresh := st.Snapshot()
	assert.Equal(t, [3]float64{1, 1, 1}, *fresh.Coords)
	assert.Equal(t, Unresolved, fresh.Commander)
}
