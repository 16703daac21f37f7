// Package push re-synchronizes game state when the server says something
// changed. Notifications flow as explicit messages: the websocket listener
// forwards game ids into the Refetcher's trigger channel, and the Refetcher
// owns all fetch scheduling, so coalescing and ordering are testable without
// a live connection.
package push

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"showdown-client/internal/logging"
	"showdown-client/internal/metrics"
)

const defaultDebounce = 150 * time.Millisecond

// FetchFunc loads fresh state for one game; the game store provides it.
type FetchFunc func(ctx context.Context, gameID int64) error

// Status describes the recent health of the refetch loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// Refetcher coalesces push triggers into fetches: per game, one in-flight
// fetch plus at most one trailing refetch, no matter how fast notifications
// arrive.
type Refetcher struct {
	fetch    FetchFunc
	logger   *slog.Logger
	metrics  *metrics.Recorder
	debounce time.Duration
	now      func() time.Time

	triggers chan int64
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// NewRefetcher constructs a Refetcher with sane defaults.
func NewRefetcher(fetch FetchFunc, logger *slog.Logger, recorder *metrics.Recorder, debounce time.Duration) *Refetcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Refetcher{
		fetch:    fetch,
		logger:   logger,
		metrics:  recorder,
		debounce: debounce,
		now:      time.Now,
		triggers: make(chan int64, 64),
		done:     make(chan struct{}),
	}
}

// Trigger requests a refetch for a game. Never blocks: when the queue is
// full the pending fetch cycle already converges on the latest state.
func (r *Refetcher) Trigger(gameID int64) {
	select {
	case r.triggers <- gameID:
	default:
		logging.Debug(r.logger, "trigger queue full, dropping", slog.Int64(logging.FieldGameID, gameID))
	}
}

// Start runs the scheduling loop until the context is cancelled or Stop is
// called.
func (r *Refetcher) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	go r.loop(ctx)
}

// Stop halts the scheduling loop.
func (r *Refetcher) Stop(ctx context.Context) error {
	_ = ctx
	r.stopOnce.Do(func() {
		close(r.done)
	})
	return nil
}

type fetchResult struct {
	gameID int64
	err    error
}

func (r *Refetcher) loop(ctx context.Context) {
	running := make(map[int64]bool)
	trailing := make(map[int64]bool)
	results := make(chan fetchResult)

	logging.Info(r.logger, "refetch loop started", slog.Int64(logging.FieldDurationMS, r.debounce.Milliseconds()))
	for {
		select {
		case <-ctx.Done():
			logging.Info(r.logger, "refetch loop stopped")
			return
		case <-r.done:
			logging.Info(r.logger, "refetch loop stopped")
			return
		case gameID := <-r.triggers:
			if running[gameID] {
				// Fold into the in-flight cycle; one trailing fetch is enough
				// because each fetch returns the full current state.
				trailing[gameID] = true
				r.metrics.RecordPushEvent(true)
				continue
			}
			r.metrics.RecordPushEvent(false)
			running[gameID] = true
			go r.runFetch(ctx, gameID, results)
		case res := <-results:
			r.recordResult(res)
			if trailing[res.gameID] {
				delete(trailing, res.gameID)
				go r.runFetch(ctx, res.gameID, results)
			} else {
				delete(running, res.gameID)
			}
		}
	}
}

// runFetch waits out the debounce window, then fetches. The window lets a
// burst of rapid notifications fold into a single request.
func (r *Refetcher) runFetch(ctx context.Context, gameID int64, results chan<- fetchResult) {
	timer := time.NewTimer(r.debounce)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		select {
		case results <- fetchResult{gameID: gameID, err: ctx.Err()}:
		case <-r.done:
		}
		return
	case <-timer.C:
	}

	err := r.fetch(ctx, gameID)
	if err != nil {
		logging.Warn(r.logger, "push-triggered fetch failed",
			slog.Int64(logging.FieldGameID, gameID),
			"error", err,
		)
	}
	select {
	case results <- fetchResult{gameID: gameID, err: err}:
	case <-r.done:
	}
}

func (r *Refetcher) recordResult(res fetchResult) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	now := r.now()
	r.status.LastAttempt = now
	if res.err != nil {
		r.status.ConsecutiveFailures++
		r.status.LastError = res.err.Error()
		return
	}
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = now
}

// Status returns a snapshot of the loop's recent health.
func (r *Refetcher) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
