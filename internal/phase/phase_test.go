package phase

import (
	"testing"

	"showdown-client/internal/domain"
)

func TestInferFromPendingDecision(t *testing.T) {
	inProgress := &domain.Game{Status: domain.StatusInProgress, CurrentTurnUserID: 7}

	cases := []struct {
		name    string
		game    *domain.Game
		state   *domain.GameState
		want    Phase
		submits bool
	}{
		{"no snapshot", nil, nil, Setup, false},
		{"setup phase", &domain.Game{Status: domain.StatusSetup}, nil, Setup, false},
		{"completed", &domain.Game{Status: domain.StatusCompleted}, &domain.GameState{PendingDecision: "pitch"}, Completed, false},
		{"pitch", inProgress, &domain.GameState{PendingDecision: "pitch"}, AwaitingPitch, true},
		{"swing", inProgress, &domain.GameState{PendingDecision: "swing"}, AwaitingSwing, true},
		{"baserunning", inProgress, &domain.GameState{PendingDecision: "baserunning"}, AwaitingBaserunningDecision, true},
		{"tag up", inProgress, &domain.GameState{PendingDecision: "tag_up"}, AwaitingBaserunningDecision, true},
		{"throw", inProgress, &domain.GameState{PendingDecision: "throw"}, AwaitingDefensiveSetup, true},
		{"steal", inProgress, &domain.GameState{PendingDecision: "steal"}, AwaitingSteal, true},
		{"substitution", inProgress, &domain.GameState{PendingDecision: "substitution"}, AwaitingSubstitution, true},
		{"no pending flag", inProgress, &domain.GameState{}, Resolving, false},
		{"missing state", inProgress, nil, Resolving, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Infer(tc.game, tc.state)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if got.AllowsSubmission() != tc.submits {
				t.Fatalf("expected AllowsSubmission=%v for %s", tc.submits, got)
			}
		})
	}
}

func TestIsViewerTurn(t *testing.T) {
	game := &domain.Game{Status: domain.StatusInProgress, CurrentTurnUserID: 7}

	if !IsViewerTurn(game, 7) {
		t.Fatal("expected viewer turn")
	}
	if IsViewerTurn(game, 8) {
		t.Fatal("expected opponent turn")
	}
	if IsViewerTurn(nil, 7) {
		t.Fatal("expected no turn without a game")
	}

	done := &domain.Game{Status: domain.StatusCompleted, CurrentTurnUserID: 7}
	if IsViewerTurn(done, 7) {
		t.Fatal("expected no turn after completion")
	}
}
