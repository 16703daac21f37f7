// Package gamestore owns the local snapshot of one game: metadata, state
// blob, event log, current batter/pitcher, lineups, and rosters. The snapshot
// is only ever replaced wholesale by a completed fetch; action submissions
// never patch it, so the sole path from "I asked for X" to "X happened" is a
// refetch triggered by the push channel.
package gamestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"showdown-client/internal/api"
	"showdown-client/internal/display"
	"showdown-client/internal/domain"
	"showdown-client/internal/logging"
	"showdown-client/internal/metrics"
)

// Doer is the slice of the API client the store uses.
type Doer interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
}

// Notifier surfaces user-blocking failures to the actor. Setup submission is
// high-value and not recoverable by a silent retry, so its failures must be
// seen.
type Notifier interface {
	Notify(message string)
}

// Snapshot is the byproduct of exactly one completed fetch. Fields from
// different fetches are never mixed.
type Snapshot struct {
	Game       *domain.Game
	State      *domain.GameState
	Events     []domain.GameEvent
	Batter     *domain.Card
	Pitcher    *domain.Card
	HomeLineup *domain.Lineup
	AwayLineup *domain.Lineup
	HomeRoster []domain.Card
	AwayRoster []domain.Card
	Setup      *domain.SetupState
	FetchSeq   uint64
}

// Config wires a Store.
type Config struct {
	Client   Doer
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	Notifier Notifier
}

// Store synchronizes the local copy of one game with the server. One Store
// instance exists per active game view; it is the sole mutator of its
// snapshot.
type Store struct {
	client   Doer
	logger   *slog.Logger
	metrics  *metrics.Recorder
	notifier Notifier

	mu             sync.Mutex
	snap           Snapshot
	lastIssued     uint64
	cancelInFlight context.CancelFunc
}

// New constructs a Store.
func New(cfg Config) *Store {
	return &Store{
		client:   cfg.Client,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		notifier: cfg.Notifier,
	}
}

// gamePayload mirrors the server's full game read.
type gamePayload struct {
	Game      domain.Game `json:"game"`
	GameState struct {
		StateData domain.GameState `json:"state_data"`
	} `json:"gameState"`
	GameEvents []domain.GameEvent `json:"gameEvents"`
	Batter     *domain.Card       `json:"batter"`
	Pitcher    *domain.Card       `json:"pitcher"`
	HomeLineup *domain.Lineup     `json:"homeLineup"`
	AwayLineup *domain.Lineup     `json:"awayLineup"`
	HomeRoster []domain.Card      `json:"homeRoster"`
	AwayRoster []domain.Card      `json:"awayRoster"`
}

// FetchGame issues one authorized read of the full game payload, derives
// display fields over every reachable card with a single collision table
// built from the union of both rosters, and atomically replaces the
// snapshot. On any failure the previous snapshot is retained; the error is
// returned for health tracking but readers only ever observe old-or-new
// state. Responses superseded by a later fetch are discarded.
func (s *Store) FetchGame(ctx context.Context, gameID int64) error {
	s.mu.Lock()
	s.lastIssued++
	seq := s.lastIssued
	if s.cancelInFlight != nil {
		s.cancelInFlight()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelInFlight = cancel
	s.mu.Unlock()
	defer cancel()

	start := time.Now()
	var payload gamePayload
	err := s.client.GetJSON(fetchCtx, fmt.Sprintf("/api/games/%d", gameID), &payload)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			logging.Debug(s.logger, "skipping game fetch without session", slog.Int64(logging.FieldGameID, gameID))
			return nil
		}
		s.metrics.RecordFetchFailed(time.Since(start))
		logging.Warn(s.logger, "game fetch failed, keeping previous snapshot",
			slog.Int64(logging.FieldGameID, gameID),
			slog.Uint64(logging.FieldFetchSeq, seq),
			"error", err,
		)
		return err
	}

	next := deriveSnapshot(payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.lastIssued {
		s.metrics.RecordFetchStale()
		logging.Debug(s.logger, "discarding superseded fetch response",
			slog.Int64(logging.FieldGameID, gameID),
			slog.Uint64(logging.FieldFetchSeq, seq),
		)
		return nil
	}

	next.Setup = s.snap.Setup // setup state has its own fetch cycle
	next.FetchSeq = seq
	s.snap = next
	s.metrics.RecordFetchApplied(time.Since(start))
	logging.Debug(s.logger, "snapshot replaced",
		slog.Int64(logging.FieldGameID, gameID),
		slog.Uint64(logging.FieldFetchSeq, seq),
		slog.Int(logging.FieldCount, len(next.Events)),
	)
	return nil
}

// deriveSnapshot runs the display pass over every card reachable in the
// payload using one shared collision table for this fetch.
func deriveSnapshot(payload gamePayload) Snapshot {
	counts := display.NameCounts(payload.HomeRoster, payload.AwayRoster)

	game := payload.Game
	state := payload.GameState.StateData
	return Snapshot{
		Game:       &game,
		State:      &state,
		Events:     payload.GameEvents,
		Batter:     display.EnrichCardPtr(payload.Batter, counts),
		Pitcher:    display.EnrichCardPtr(payload.Pitcher, counts),
		HomeLineup: display.EnrichLineup(payload.HomeLineup, counts),
		AwayLineup: display.EnrichLineup(payload.AwayLineup, counts),
		HomeRoster: display.EnrichRoster(payload.HomeRoster, counts),
		AwayRoster: display.EnrichRoster(payload.AwayRoster, counts),
	}
}

// FetchGameSetup reads the pre-game negotiation state. Failures keep the
// previous value.
func (s *Store) FetchGameSetup(ctx context.Context, gameID int64) error {
	var setup domain.SetupState
	err := s.client.GetJSON(ctx, fmt.Sprintf("/api/games/%d/setup", gameID), &setup)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return nil
		}
		logging.Warn(s.logger, "setup fetch failed",
			slog.Int64(logging.FieldGameID, gameID),
			"error", err,
		)
		return err
	}

	s.mu.Lock()
	s.snap.Setup = &setup
	s.mu.Unlock()
	return nil
}

// SetupSubmission carries one side's lineup for the setup phase.
type SetupSubmission struct {
	BattingOrder      []domain.LineupSlot `json:"batting_order"`
	StartingPitcherID int64               `json:"starting_pitcher_id"`
}

// SubmitGameSetup posts a lineup for the setup phase. This write is
// user-blocking: failures are surfaced to the actor with every itemized
// validation message. Local state is not touched; the push channel triggers
// the refetch that reflects the accepted submission.
func (s *Store) SubmitGameSetup(ctx context.Context, gameID int64, setup SetupSubmission) error {
	err := s.client.PostJSON(ctx, fmt.Sprintf("/api/games/%d/setup", gameID), setup, nil)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return nil
		}
		logging.Warn(s.logger, "setup submission failed",
			slog.Int64(logging.FieldGameID, gameID),
			"error", err,
		)
		if s.notifier != nil {
			s.notifier.Notify("Failed to submit game setup: " + api.UserMessage(err))
		}
		return err
	}
	return nil
}

// Snapshot returns a consistent copy of the current snapshot. Slices are
// copied so readers cannot alias store-held state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

// Reset drops all cached game state; the session layer calls it on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.mu.Unlock()
}

func copySnapshot(snap Snapshot) Snapshot {
	out := Snapshot{FetchSeq: snap.FetchSeq}
	if snap.Game != nil {
		game := *snap.Game
		out.Game = &game
	}
	if snap.State != nil {
		state := *snap.State
		out.State = &state
	}
	if snap.Events != nil {
		out.Events = append([]domain.GameEvent(nil), snap.Events...)
	}
	if snap.Batter != nil {
		batter := *snap.Batter
		out.Batter = &batter
	}
	if snap.Pitcher != nil {
		pitcher := *snap.Pitcher
		out.Pitcher = &pitcher
	}
	out.HomeLineup = copyLineup(snap.HomeLineup)
	out.AwayLineup = copyLineup(snap.AwayLineup)
	if snap.HomeRoster != nil {
		out.HomeRoster = append([]domain.Card(nil), snap.HomeRoster...)
	}
	if snap.AwayRoster != nil {
		out.AwayRoster = append([]domain.Card(nil), snap.AwayRoster...)
	}
	if snap.Setup != nil {
		setup := *snap.Setup
		out.Setup = &setup
	}
	return out
}

func copyLineup(lineup *domain.Lineup) *domain.Lineup {
	if lineup == nil {
		return nil
	}
	out := &domain.Lineup{
		BattingOrder: append([]domain.LineupSlot(nil), lineup.BattingOrder...),
	}
	if lineup.StartingPitcher != nil {
		sp := *lineup.StartingPitcher
		out.StartingPitcher = &sp
	}
	return out
}
