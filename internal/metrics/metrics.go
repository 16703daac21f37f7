package metrics

import (
	"sync"
	"time"
)

type opStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about client operations.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu      sync.Mutex
	ops     map[string]*opStats
	actions map[string]int

	fetchApplied  int
	fetchFailed   int
	fetchStale    int
	pushSeen      int
	pushCoalesced int

	otel *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		ops:     make(map[string]*opStats),
		actions: make(map[string]int),
		otel:    otel,
	}
}

// RecordAPICall increments counters for one HTTP round trip and stores
// the last observed latency for the operation.
func (r *Recorder) RecordAPICall(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ops[op]
	if stats == nil {
		stats = &opStats{}
		r.ops[op] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordAPICall(op, duration, err)
	}
}

// RecordFetchApplied tracks a fetch whose payload replaced the snapshot.
func (r *Recorder) RecordFetchApplied(duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fetchApplied++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetch(fetchOutcomeApplied, duration)
	}
}

// RecordFetchFailed tracks a fetch that errored and left the snapshot alone.
func (r *Recorder) RecordFetchFailed(duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fetchFailed++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetch(fetchOutcomeFailed, duration)
	}
}

// RecordFetchStale tracks a fetch response discarded by the sequence guard.
func (r *Recorder) RecordFetchStale() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fetchStale++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetch(fetchOutcomeStale, 0)
	}
}

// RecordAction counts one submitted game action by name.
func (r *Recorder) RecordAction(name string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.actions[name]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordAction(name, err)
	}
}

// RecordPushEvent counts a push notification; coalesced marks triggers that
// were folded into an already in-flight fetch.
func (r *Recorder) RecordPushEvent(coalesced bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.pushSeen++
	if coalesced {
		r.pushCoalesced++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPushEvent(coalesced)
	}
}

// Snapshot is a copy of the recorder's counters for one operation.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

// APICalls returns the call count recorded for an operation.
func (r *Recorder) APICalls(op string) int {
	return r.OpSnapshot(op).Calls
}

// APIErrors returns the error count recorded for an operation.
func (r *Recorder) APIErrors(op string) int {
	return r.OpSnapshot(op).Errors
}

// OpSnapshot returns a copy of the current stats for one operation.
func (r *Recorder) OpSnapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.ops[op]
	if stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// FetchCounts returns the applied/failed/stale fetch tallies.
func (r *Recorder) FetchCounts() (applied, failed, stale int) {
	if r == nil {
		return 0, 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchApplied, r.fetchFailed, r.fetchStale
}

// ActionCount returns the number of submissions recorded for an action name.
func (r *Recorder) ActionCount(name string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[name]
}

// PushCounts returns how many push events were seen and how many coalesced.
func (r *Recorder) PushCounts() (seen, coalesced int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushSeen, r.pushCoalesced
}
