package journal

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edrh-tools/edjournal/internal/statefile"
)

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
	raws  []Record
}

func (r *recorder) onState(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) onRaw(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raws = append(r.raws, rec)
}

func (r *recorder) stateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) rawCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.raws)
}

func (r *recorder) lastSnap() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) raw(i int) Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.raws[i]
}

func testMonitor(t *testing.T, dir string) (*Monitor, *recorder) {
	t.Helper()
	mon := NewMonitor(Options{
		Dir:      dir,
		Interval: 10 * time.Millisecond,
		Backoff:  20 * time.Millisecond,
	})
	rec := &recorder{}
	mon.Subscribe(rec.onState, rec.onRaw)
	t.Cleanup(mon.Stop)
	return mon, rec
}

const eventually = 3 * time.Second

func TestMonitor_BootstrapThenRotation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Journal.2024-01-01T000000.01.log", lineAlice)

	mon, rec := testMonitor(t, dir)
	mon.Start()

	// Bootstrap seeds identity from history without replaying it.
	assert.Eventually(t, func() bool {
		snap := mon.Snapshot()
		return snap.Commander == "Alice" && snap.Version == 1
	}, eventually, 5*time.Millisecond)
	assert.Equal(t, 0, rec.rawCount())
	assert.Equal(t, 0, rec.stateCount())

	// A newer journal appears: rotation, one delivery from the new file.
	writeFile(t, dir, "Journal.2024-01-02T000000.01.log", lineSol)
	assert.Eventually(t, func() bool { return rec.stateCount() == 1 }, eventually, 5*time.Millisecond)

	snap := rec.lastSnap()
	assert.Equal(t, "Alice", snap.Commander)
	assert.Equal(t, "Sol", snap.System)
	require.NotNil(t, snap.Coords)
	assert.Equal(t, [3]float64{0, 0, 0}, *snap.Coords)
	assert.Equal(t, uint64(2), snap.Version)

	// No duplicate delivery on subsequent quiet ticks.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.stateCount())
}

func TestMonitor_PartialLineAcrossTicks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Journal.2024-01-01T000000.01.log", "")

	mon, rec := testMonitor(t, dir)
	mon.Start()

	appendFile(t, path, `{"event":"Music","MusicT`)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, rec.rawCount())

	appendFile(t, path, `rack":"NoTrack"}`+"\n")
	assert.Eventually(t, func() bool { return rec.rawCount() == 1 }, eventually, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.rawCount())
	assert.Equal(t, uint64(0), mon.MalformedLines())
}

func TestMonitor_FirstFileAfterStart(t *testing.T) {
	dir := t.TempDir()
	mon, rec := testMonitor(t, dir)
	mon.Start()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, dir, "Journal.2024-01-01T000000.01.log", lineAlice+lineSol)

	assert.Eventually(t, func() bool {
		snap := mon.Snapshot()
		return snap.Commander == "Alice" && snap.System == "Sol"
	}, eventually, 5*time.Millisecond)
	assert.Equal(t, 2, rec.rawCount())
}

func TestMonitor_MalformedLinesCounted(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Journal.2024-01-01T000000.01.log", "")

	mon, rec := testMonitor(t, dir)
	mon.Start()

	appendFile(t, path, "garbage line\n"+lineMusic)
	assert.Eventually(t, func() bool { return rec.rawCount() == 1 }, eventually, 5*time.Millisecond)
	assert.Equal(t, uint64(1), mon.MalformedLines())
	assert.Equal(t, "Music", rec.raw(0).Event)
}

func TestMonitor_UnrecognizedKindDoesNotMutateState(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Journal.2024-01-01T000000.01.log", "")

	mon, rec := testMonitor(t, dir)
	mon.Start()

	appendFile(t, path, lineMusic)
	assert.Eventually(t, func() bool { return rec.rawCount() == 1 }, eventually, 5*time.Millisecond)
	assert.Equal(t, 0, rec.stateCount())
	assert.Zero(t, mon.Snapshot().Version)
}

func TestMonitor_StartStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	mon := NewMonitor(Options{Dir: dir, Interval: 10 * time.Millisecond})

	mon.Start()
	mon.Start()

	done := make(chan struct{})
	go func() {
		mon.Stop()
		mon.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return promptly")
	}

	// Snapshot stays callable after shutdown.
	assert.Equal(t, Unresolved, mon.Snapshot().Commander)
}

func TestMonitor_StateFileSideChannel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Journal.2024-01-01T000000.01.log", lineAlice+lineSol)

	sidePath := filepath.Join(t.TempDir(), "state.yaml")
	mon := NewMonitor(Options{
		Dir:       dir,
		Interval:  10 * time.Millisecond,
		StateFile: statefile.New(sidePath),
	})
	t.Cleanup(mon.Stop)
	mon.Start()

	side := statefile.New(sidePath)
	assert.Eventually(t, func() bool {
		d, err := side.Read()
		return err == nil && d.Commander == "Alice" && d.System == "Sol"
	}, eventually, 5*time.Millisecond)

	d, err := side.Read()
	require.NoError(t, err)
	assert.Contains(t, d.ActiveJournal, "Journal.2024-01-01T000000.01.log")
}
