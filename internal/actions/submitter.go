// Package actions issues the discrete turn actions a player may submit. Every
// call is best-effort and at-most-once: the server alone decides whether the
// action is legal for the caller's turn and role, and no call mutates local
// game state. Updated state only ever arrives through the push-triggered
// refetch, which keeps "what I asked for" and "what actually happened" from
// diverging.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"showdown-client/internal/api"
	"showdown-client/internal/logging"
	"showdown-client/internal/metrics"
)

// Poster is the slice of the API client the submitter uses.
type Poster interface {
	PostJSON(ctx context.Context, path string, body, out any) error
}

// Notifier surfaces user-blocking failures to the actor.
type Notifier interface {
	Notify(message string)
}

// Config wires a Submitter.
type Config struct {
	Client   Poster
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	Notifier Notifier
}

// Submitter posts game actions. Failures split into two classes: most
// actions are silently recoverable because the next refetch simply shows the
// action did not take effect, while substitutions and lineup writes are
// irreversible-feeling choices whose failures the actor must see.
type Submitter struct {
	client   Poster
	logger   *slog.Logger
	metrics  *metrics.Recorder
	notifier Notifier
}

// New constructs a Submitter.
func New(cfg Config) *Submitter {
	return &Submitter{
		client:   cfg.Client,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		notifier: cfg.Notifier,
	}
}

// SubmitPitch asks the server to resolve a pitch, optionally with a chosen
// sub-action (e.g. a pickoff attempt).
func (s *Submitter) SubmitPitch(ctx context.Context, gameID int64, subAction string) error {
	return s.submitSilent(ctx, "pitch", gameID, optionalAction(subAction))
}

// SubmitSwing asks the server to resolve the batter's swing, optionally with
// a chosen sub-action (e.g. a bunt).
func (s *Submitter) SubmitSwing(ctx context.Context, gameID int64, subAction string) error {
	return s.submitSilent(ctx, "swing", gameID, optionalAction(subAction))
}

// SubmitRoll submits the player's dice roll for the pending resolution.
func (s *Submitter) SubmitRoll(ctx context.Context, gameID int64) error {
	return s.submitSilent(ctx, "roll", gameID, nil)
}

// ResetRolls clears any staged rolls for the current resolution.
func (s *Submitter) ResetRolls(ctx context.Context, gameID int64) error {
	return s.submitSilent(ctx, "reset-rolls", gameID, nil)
}

// InitiateSteal signals the offense wants a steal decision point.
func (s *Submitter) InitiateSteal(ctx context.Context, gameID int64) error {
	return s.submitSilent(ctx, "initiate-steal", gameID, nil)
}

// AttemptSteal sends the runner from the given base.
func (s *Submitter) AttemptSteal(ctx context.Context, gameID int64, fromBase int) error {
	return s.submitSilent(ctx, "steal", gameID, map[string]int{"from_base": fromBase})
}

// RunnerDecisions maps base numbers to send/hold choices.
type RunnerDecisions map[string]bool

// SubmitTagUp submits tag-up choices for each eligible runner.
func (s *Submitter) SubmitTagUp(ctx context.Context, gameID int64, decisions RunnerDecisions) error {
	return s.submitSilent(ctx, "tag-up", gameID, map[string]any{"decisions": decisions})
}

// AdvanceRunners submits extra-base advancement choices.
func (s *Submitter) AdvanceRunners(ctx context.Context, gameID int64, decisions RunnerDecisions) error {
	return s.submitSilent(ctx, "advance-runners", gameID, map[string]any{"decisions": decisions})
}

// SubmitBaserunningDecisions submits the offense's pending baserunning calls.
func (s *Submitter) SubmitBaserunningDecisions(ctx context.Context, gameID int64, decisions RunnerDecisions) error {
	return s.submitSilent(ctx, "submit-decisions", gameID, map[string]any{"decisions": decisions})
}

// ResolveDefensiveThrow picks which base the defense throws to.
func (s *Submitter) ResolveDefensiveThrow(ctx context.Context, gameID int64, throwTo int) error {
	return s.submitSilent(ctx, "resolve-throw", gameID, map[string]int{"throw_to": throwTo})
}

// SetDefense positions the infield before the pitch.
func (s *Submitter) SetDefense(ctx context.Context, gameID int64, infieldIn bool) error {
	return s.submitSilent(ctx, "set-defense", gameID, map[string]bool{"infield_in": infieldIn})
}

// SubmitInfieldInDecision answers the send-the-runner prompt against a drawn
// in infield.
func (s *Submitter) SubmitInfieldInDecision(ctx context.Context, gameID int64, sendRunner bool) error {
	return s.submitSilent(ctx, "infield-in-play", gameID, map[string]bool{"send_runner": sendRunner})
}

// PlayTurn is the legacy combined verb that resolves a whole turn at once.
func (s *Submitter) PlayTurn(ctx context.Context, gameID int64) error {
	return s.submitSilent(ctx, "play", gameID, map[string]string{"action": "swing"})
}

// Substitution describes a roster swap.
type Substitution struct {
	OutCardID int64 `json:"out_card_id"`
	InCardID  int64 `json:"in_card_id"`
	Slot      int   `json:"slot"`
}

// SubmitSubstitution swaps a card into the lineup. User-blocking: the player
// must know when the swap was refused.
func (s *Submitter) SubmitSubstitution(ctx context.Context, gameID int64, sub Substitution) error {
	return s.submitBlocking(ctx, "substitute", gameID, sub)
}

// SubmitLineup writes a full lineup outside the setup negotiation (e.g. after
// a forfeit-threatening invalidation). User-blocking like substitution.
func (s *Submitter) SubmitLineup(ctx context.Context, gameID int64, lineup any) error {
	return s.submitBlocking(ctx, "lineup", gameID, lineup)
}

// submitSilent fires a best-effort action. Every failure, including a missing
// session, is logged and dropped: correctness is restored by the next
// push-triggered fetch, which will simply reflect that the action did not
// take effect.
func (s *Submitter) submitSilent(ctx context.Context, name string, gameID int64, body any) error {
	err := s.post(ctx, name, gameID, body)
	if err != nil && !errors.Is(err, api.ErrNoToken) {
		logging.Warn(s.logger, "action dropped",
			slog.String(logging.FieldAction, name),
			slog.Int64(logging.FieldGameID, gameID),
			"error", err,
		)
	}
	return nil
}

// submitBlocking fires a user-blocking action: failures surface a synchronous
// message to the actor and the error propagates to the caller.
func (s *Submitter) submitBlocking(ctx context.Context, name string, gameID int64, body any) error {
	err := s.post(ctx, name, gameID, body)
	if err == nil || errors.Is(err, api.ErrNoToken) {
		return nil
	}
	logging.Warn(s.logger, "action rejected",
		slog.String(logging.FieldAction, name),
		slog.Int64(logging.FieldGameID, gameID),
		"error", err,
	)
	if s.notifier != nil {
		s.notifier.Notify(fmt.Sprintf("Failed to submit %s: %s", name, api.UserMessage(err)))
	}
	return err
}

func (s *Submitter) post(ctx context.Context, name string, gameID int64, body any) error {
	err := s.client.PostJSON(ctx, fmt.Sprintf("/api/games/%d/%s", gameID, name), body, nil)
	if s.metrics != nil && !errors.Is(err, api.ErrNoToken) {
		s.metrics.RecordAction(name, err)
	}
	return err
}

func optionalAction(subAction string) any {
	if subAction == "" {
		return nil
	}
	return map[string]string{"action": subAction}
}
