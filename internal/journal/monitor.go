package journal

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/edrh-tools/edjournal/internal/metrics"
	"github.com/edrh-tools/edjournal/internal/statefile"
)

const (
	// DefaultInterval is the poll cadence between ticks.
	DefaultInterval = 1 * time.Second
	// DefaultBackoff is the longer wait applied after a failed tick.
	DefaultBackoff = 5 * time.Second
	// DefaultFailureWarnAfter is how many consecutive tick failures are
	// tolerated before a warning is logged.
	DefaultFailureWarnAfter = 5
)

// Options configures one Monitor instance. Dependencies are passed in
// explicitly; monitors share no state with each other.
type Options struct {
	// Dir is the journal directory to watch.
	Dir string
	// Interval between poll ticks. Zero means DefaultInterval.
	Interval time.Duration
	// Backoff applied after a failed tick. Zero means DefaultBackoff.
	Backoff time.Duration
	// FailureWarnAfter is the consecutive-failure warning threshold.
	// Zero means DefaultFailureWarnAfter.
	FailureWarnAfter int
	// StateFile, when set, receives the active journal path and snapshot
	// on every rotation and state change. Diagnostics only.
	StateFile *statefile.File
	// Logger defaults to a no-op logger when nil.
	Logger *zap.SugaredLogger
}

// Monitor tails the newest journal file in a directory on a fixed interval
// and folds its events into a derived snapshot. Exactly one goroutine runs
// the poll loop; nothing else mutates the cursor or the state.
type Monitor struct {
	opts   Options
	state  *State
	disp   *Dispatcher
	cursor Cursor

	malformed atomic.Uint64

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewMonitor creates a monitor for opts.Dir. Call Start to begin polling.
func NewMonitor(opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.FailureWarnAfter <= 0 {
		opts.FailureWarnAfter = DefaultFailureWarnAfter
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Monitor{
		opts:  opts,
		state: NewState(),
		disp:  NewDispatcher(opts.Logger),
	}
}

// Start launches the poll loop. Starting a running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	go m.run(m.stopCh, m.doneCh)
}

// Stop halts the poll loop and blocks until the in-flight tick, if any,
// has exited. Stopping a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// Snapshot returns the latest derived state. Callable from any goroutine.
func (m *Monitor) Snapshot() Snapshot {
	return m.state.Snapshot()
}

// Subscribe registers state-change and raw-event callbacks.
func (m *Monitor) Subscribe(onState StateHandler, onRaw RawHandler) SubID {
	return m.disp.Subscribe(onState, onRaw)
}

// Unsubscribe removes a subscription.
func (m *Monitor) Unsubscribe(id SubID) {
	m.disp.Unsubscribe(id)
}

// MalformedLines returns how many lines were dropped as undecodable.
func (m *Monitor) MalformedLines() uint64 {
	return m.malformed.Load()
}

func (m *Monitor) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	m.bootstrap()

	consecutiveFailures := 0
	timer := time.NewTimer(m.opts.Interval)
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timer.C:
		}

		wait := m.opts.Interval
		if err := m.tick(); err != nil {
			metrics.PollErrors.Inc()
			consecutiveFailures++
			if consecutiveFailures == m.opts.FailureWarnAfter {
				m.opts.Logger.Warnf("journal poll failing for %d consecutive ticks: %v", consecutiveFailures, err)
			} else {
				m.opts.Logger.Debugf("journal poll tick skipped: %v", err)
			}
			wait = m.opts.Backoff
		} else {
			consecutiveFailures = 0
		}
		timer.Reset(wait)
	}
}

// bootstrap seeds the state from the best historical file and pins the
// cursor to its end so startup never replays history to subscribers.
func (m *Monitor) bootstrap() {
	ref, ok := Bootstrap(m.opts.Dir, m.state)
	if !ok {
		m.opts.Logger.Infof("no journal files in %s yet, waiting for the first one", m.opts.Dir)
		return
	}
	if err := m.cursor.StartAt(ref); err != nil {
		// The file vanished between scan and stat; the next tick will
		// pick up whatever the locator finds.
		m.opts.Logger.Warnf("bootstrap file unavailable: %v", err)
		return
	}

	snap := m.state.Snapshot()
	metrics.StateVersion.Set(float64(snap.Version))
	m.opts.Logger.Infof("bootstrapped from %s (commander=%s system=%s version=%d)",
		ref.Path, snap.Commander, snap.System, snap.Version)
	m.writeStateFile()
}

func (m *Monitor) tick() error {
	latest, ok := Latest(m.opts.Dir)
	if !ok {
		// Nothing to tail yet; not a failure.
		return nil
	}

	res, err := m.cursor.Poll(latest)
	if res.Rotated {
		metrics.Rotations.Inc()
		m.opts.Logger.Infof("journal rotated to %s", latest.Path)
		m.writeStateFile()
	}
	if err != nil {
		return err
	}
	if res.Truncated {
		metrics.Truncations.Inc()
		m.opts.Logger.Warnf("journal %s truncated, re-reading from start", latest.Path)
	}

	stateChanged := false
	for _, line := range res.Lines {
		rec, err := ParseLine(line)
		if err != nil {
			m.malformed.Add(1)
			metrics.MalformedLines.Inc()
			continue
		}
		if rec == nil {
			continue
		}
		metrics.LinesConsumed.Inc()

		changed := m.state.Apply(rec)
		m.disp.PublishRaw(*rec)
		if changed {
			snap := m.state.Snapshot()
			metrics.StateVersion.Set(float64(snap.Version))
			m.disp.PublishState(snap)
			stateChanged = true
		}
	}
	if stateChanged {
		m.writeStateFile()
	}
	return nil
}

func (m *Monitor) writeStateFile() {
	if m.opts.StateFile == nil {
		return
	}
	snap := m.state.Snapshot()
	active, _ := m.cursor.Active()
	err := m.opts.StateFile.Write(statefile.Data{
		ActiveJournal: active.Path,
		Commander:     snap.Commander,
		System:        snap.System,
		Coords:        snap.Coords,
		Version:       snap.Version,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		m.opts.Logger.Warnf("state file write failed: %v", err)
	}
}
