package actions

import (
	"context"
	"strings"
	"testing"

	"showdown-client/internal/api"
	"showdown-client/internal/metrics"
)

type fakePoster struct {
	paths  []string
	bodies []any
	err    error
}

func (f *fakePoster) PostJSON(_ context.Context, path string, body, _ any) error {
	f.paths = append(f.paths, path)
	f.bodies = append(f.bodies, body)
	return f.err
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(message string) {
	f.messages = append(f.messages, message)
}

func TestActionEndpoints(t *testing.T) {
	poster := &fakePoster{}
	sub := New(Config{Client: poster})
	ctx := context.Background()

	calls := []struct {
		invoke   func() error
		wantPath string
	}{
		{func() error { return sub.SubmitPitch(ctx, 42, "") }, "/api/games/42/pitch"},
		{func() error { return sub.SubmitSwing(ctx, 42, "bunt") }, "/api/games/42/swing"},
		{func() error { return sub.SubmitRoll(ctx, 42) }, "/api/games/42/roll"},
		{func() error { return sub.ResetRolls(ctx, 42) }, "/api/games/42/reset-rolls"},
		{func() error { return sub.InitiateSteal(ctx, 42) }, "/api/games/42/initiate-steal"},
		{func() error { return sub.AttemptSteal(ctx, 42, 1) }, "/api/games/42/steal"},
		{func() error { return sub.SubmitTagUp(ctx, 42, RunnerDecisions{"3": true}) }, "/api/games/42/tag-up"},
		{func() error { return sub.AdvanceRunners(ctx, 42, nil) }, "/api/games/42/advance-runners"},
		{func() error { return sub.SubmitBaserunningDecisions(ctx, 42, nil) }, "/api/games/42/submit-decisions"},
		{func() error { return sub.ResolveDefensiveThrow(ctx, 42, 2) }, "/api/games/42/resolve-throw"},
		{func() error { return sub.SetDefense(ctx, 42, true) }, "/api/games/42/set-defense"},
		{func() error { return sub.SubmitInfieldInDecision(ctx, 42, false) }, "/api/games/42/infield-in-play"},
		{func() error { return sub.PlayTurn(ctx, 42) }, "/api/games/42/play"},
		{func() error { return sub.SubmitSubstitution(ctx, 42, Substitution{}) }, "/api/games/42/substitute"},
		{func() error { return sub.SubmitLineup(ctx, 42, nil) }, "/api/games/42/lineup"},
	}

	for i, tc := range calls {
		if err := tc.invoke(); err != nil {
			t.Fatalf("call %d returned error %v", i, err)
		}
		if got := poster.paths[i]; got != tc.wantPath {
			t.Fatalf("call %d hit %q, want %q", i, got, tc.wantPath)
		}
	}
}

func TestOptionalSubActionBody(t *testing.T) {
	poster := &fakePoster{}
	sub := New(Config{Client: poster})

	if err := sub.SubmitPitch(context.Background(), 42, ""); err != nil {
		t.Fatalf("pitch: %v", err)
	}
	if poster.bodies[0] != nil {
		t.Fatalf("expected empty body without sub-action, got %v", poster.bodies[0])
	}

	if err := sub.SubmitSwing(context.Background(), 42, "bunt"); err != nil {
		t.Fatalf("swing: %v", err)
	}
	body, ok := poster.bodies[1].(map[string]string)
	if !ok || body["action"] != "bunt" {
		t.Fatalf("expected sub-action body, got %v", poster.bodies[1])
	}
}

func TestSilentActionsAbsorbFailures(t *testing.T) {
	poster := &fakePoster{err: &api.ServerRejection{StatusCode: 409, Message: "not your turn"}}
	notifier := &fakeNotifier{}
	rec := metrics.NewRecorder()
	sub := New(Config{Client: poster, Metrics: rec, Notifier: notifier})

	if err := sub.SubmitPitch(context.Background(), 42, ""); err != nil {
		t.Fatalf("expected silent drop, got %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("expected no user-facing message, got %v", notifier.messages)
	}
	if got := rec.ActionCount("pitch"); got != 1 {
		t.Fatalf("expected recorded attempt, got %d", got)
	}
}

func TestBlockingActionsSurfaceFailures(t *testing.T) {
	poster := &fakePoster{err: &api.ServerRejection{
		StatusCode: 422,
		Message:    "substitution refused",
		Errors:     []string{"card already used"},
	}}
	notifier := &fakeNotifier{}
	sub := New(Config{Client: poster, Notifier: notifier})

	err := sub.SubmitSubstitution(context.Background(), 42, Substitution{OutCardID: 1, InCardID: 2})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one user-facing message, got %v", notifier.messages)
	}
	for _, want := range []string{"substitution refused", "card already used"} {
		if !strings.Contains(notifier.messages[0], want) {
			t.Fatalf("expected message to contain %q, got %q", want, notifier.messages[0])
		}
	}
}

func TestNoTokenIsNoOpForBothClasses(t *testing.T) {
	poster := &fakePoster{err: api.ErrNoToken}
	notifier := &fakeNotifier{}
	rec := metrics.NewRecorder()
	sub := New(Config{Client: poster, Metrics: rec, Notifier: notifier})

	if err := sub.SubmitRoll(context.Background(), 42); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if err := sub.SubmitSubstitution(context.Background(), 42, Substitution{}); err != nil {
		t.Fatalf("expected blocking call to no-op without session, got %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("expected no message for missing session, got %v", notifier.messages)
	}
	if got := rec.ActionCount("roll"); got != 0 {
		t.Fatalf("expected no recorded attempts without session, got %d", got)
	}
}
