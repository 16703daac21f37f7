// Package phase classifies what the client is waiting on by inspecting the
// latest fetched snapshot. The server alone computes transitions; this pass
// only reads fields so the UI can enable the matching action.
package phase

import "showdown-client/internal/domain"

// Phase is the client-observed turn state.
type Phase string

const (
	Setup                       Phase = "setup"
	AwaitingPitch               Phase = "awaiting_pitch"
	AwaitingSwing               Phase = "awaiting_swing"
	AwaitingBaserunningDecision Phase = "awaiting_baserunning_decision"
	AwaitingDefensiveSetup      Phase = "awaiting_defensive_setup"
	AwaitingSteal               Phase = "awaiting_steal"
	AwaitingSubstitution        Phase = "awaiting_substitution"
	Resolving                   Phase = "resolving"
	Completed                   Phase = "completed"
)

// Infer classifies the current phase from fetched fields. A nil game means
// nothing has been fetched yet; that reads as Setup since no affordance can
// be enabled anyway.
func Infer(game *domain.Game, state *domain.GameState) Phase {
	if game == nil {
		return Setup
	}
	if game.Completed() {
		return Completed
	}
	if game.Status == domain.StatusSetup {
		return Setup
	}
	if state == nil {
		return Resolving
	}

	switch state.PendingDecision {
	case "pitch":
		return AwaitingPitch
	case "swing":
		return AwaitingSwing
	case "baserunning", "tag_up", "advance_runners":
		return AwaitingBaserunningDecision
	case "defense", "throw", "infield_in":
		return AwaitingDefensiveSetup
	case "steal":
		return AwaitingSteal
	case "substitution":
		return AwaitingSubstitution
	default:
		return Resolving
	}
}

// IsViewerTurn reports whether the viewer owns the current turn. Advisory
// only: the UI may disable affordances with it, but the server remains the
// authority on legality.
func IsViewerTurn(game *domain.Game, viewerID int64) bool {
	if game == nil || game.Completed() {
		return false
	}
	return game.CurrentTurnUserID == viewerID
}

// AllowsSubmission reports whether any action submission makes sense in the
// phase. Completed freezes the event log and every affordance.
func (p Phase) AllowsSubmission() bool {
	return p != Completed && p != Setup && p != Resolving
}
