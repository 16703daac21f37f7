package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksAPICallsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordAPICall("fetch_game", 10*time.Millisecond, nil)
	rec.RecordAPICall("fetch_game", 15*time.Millisecond, errors.New("boom"))

	if got := rec.APICalls("fetch_game"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.APIErrors("fetch_game"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	snap := rec.OpSnapshot("fetch_game")
	if snap.Calls != 2 || snap.Errors != 1 || snap.LastCallLatency != 15*time.Millisecond {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksFetchOutcomes(t *testing.T) {
	rec := NewRecorder()
	rec.RecordFetchApplied(time.Millisecond)
	rec.RecordFetchApplied(time.Millisecond)
	rec.RecordFetchFailed(time.Millisecond)
	rec.RecordFetchStale()

	applied, failed, stale := rec.FetchCounts()
	if applied != 2 || failed != 1 || stale != 1 {
		t.Fatalf("unexpected fetch counts applied=%d failed=%d stale=%d", applied, failed, stale)
	}
}

func TestRecorderTracksActionsAndPush(t *testing.T) {
	rec := NewRecorder()
	rec.RecordAction("pitch", nil)
	rec.RecordAction("pitch", errors.New("refused"))
	rec.RecordPushEvent(false)
	rec.RecordPushEvent(true)

	if got := rec.ActionCount("pitch"); got != 2 {
		t.Fatalf("expected 2 pitch submissions, got %d", got)
	}
	seen, coalesced := rec.PushCounts()
	if seen != 2 || coalesced != 1 {
		t.Fatalf("unexpected push counts seen=%d coalesced=%d", seen, coalesced)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordAPICall("fetch_game", time.Millisecond, nil)
	rec.RecordFetchApplied(time.Millisecond)
	rec.RecordFetchFailed(time.Millisecond)
	rec.RecordFetchStale()
	rec.RecordAction("pitch", nil)
	rec.RecordPushEvent(true)

	if got := rec.APICalls("fetch_game"); got != 0 {
		t.Fatalf("expected zero calls on nil recorder, got %d", got)
	}
}
