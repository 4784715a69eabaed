package journal

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/edrh-tools/edjournal/internal/metrics"
)

// StateHandler receives a snapshot copy after the derived state changed.
type StateHandler func(Snapshot)

// RawHandler receives every decoded record, recognized or not.
type RawHandler func(Record)

// SubID identifies one subscription.
type SubID uint64

type subscriber struct {
	onState StateHandler
	onRaw   RawHandler
}

// Dispatcher delivers notifications to registered subscribers. Delivery is
// synchronous within the poll tick; a panicking subscriber is isolated and
// never prevents delivery to the others.
type Dispatcher struct {
	logger *zap.SugaredLogger

	mu     sync.RWMutex
	nextID SubID
	subs   map[SubID]subscriber
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		subs:   make(map[SubID]subscriber),
	}
}

// Subscribe registers callbacks; either may be nil. Callbacks must return
// quickly; a subscriber needing heavy work hands off internally.
func (d *Dispatcher) Subscribe(onState StateHandler, onRaw RawHandler) SubID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.subs[id] = subscriber{onState: onState, onRaw: onRaw}
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (d *Dispatcher) Unsubscribe(id SubID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, id)
}

// PublishState delivers a state-change notification to all subscribers in
// registration order.
func (d *Dispatcher) PublishState(snap Snapshot) {
	for _, sub := range d.ordered() {
		if sub.onState == nil {
			continue
		}
		d.invoke(func() { sub.onState(snap.copy()) })
	}
	metrics.EventsDispatched.WithLabelValues("state").Inc()
}

// PublishRaw delivers a raw record notification to all subscribers in
// registration order.
func (d *Dispatcher) PublishRaw(rec Record) {
	for _, sub := range d.ordered() {
		if sub.onRaw == nil {
			continue
		}
		d.invoke(func() { sub.onRaw(rec) })
	}
	metrics.EventsDispatched.WithLabelValues("raw").Inc()
}

func (d *Dispatcher) ordered() []subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]SubID, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]subscriber, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.subs[id])
	}
	return out
}

func (d *Dispatcher) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SubscriberPanics.Inc()
			if d.logger != nil {
				d.logger.Errorf("subscriber callback panicked: %v", r)
			}
		}
	}()
	fn()
}
