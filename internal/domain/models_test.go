package domain

import "testing"

func TestGameStatusValues(t *testing.T) {
	expected := map[GameStatus]string{
		StatusSetup:      "setup",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
	}

	for status, want := range expected {
		if string(status) != want {
			t.Fatalf("expected %q got %q", want, status)
		}
	}
}

func TestSessionValid(t *testing.T) {
	if (Session{}).Valid() {
		t.Fatal("empty session should not be valid")
	}
	if !(Session{Token: "abc"}).Valid() {
		t.Fatal("session with token should be valid")
	}
}

func TestGameCompleted(t *testing.T) {
	if (Game{Status: StatusInProgress}).Completed() {
		t.Fatal("in-progress game reported completed")
	}
	if !(Game{Status: StatusCompleted}).Completed() {
		t.Fatal("completed game not reported completed")
	}
}

func TestCardIsPitcher(t *testing.T) {
	control := 4
	if !(Card{Control: &control}).IsPitcher() {
		t.Fatal("card with control rating should be a pitcher")
	}
	if (Card{Command: 10}).IsPitcher() {
		t.Fatal("card without control rating should not be a pitcher")
	}
}
