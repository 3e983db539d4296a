package state

import (
	"testing"
	"time"

	"github.com/five82/galley/internal/recipe"
)

func TestStore_ZeroValueIsIdle(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Phase != Idle {
		t.Fatalf("Phase = %q, want idle", snap.Phase)
	}
	if snap.HasFeed() {
		t.Fatalf("HasFeed() = true on a fresh store")
	}
}

func TestStore_PublishAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Publish(State{Phase: Loaded, Feed: recipe.Feed{{ID: "1"}, {ID: "2"}}})

	snap := s.Snapshot()
	if snap.Phase != Loaded || len(snap.Feed) != 2 || snap.Feed[0].ID != "1" {
		t.Fatalf("snapshot = %#v, want loaded with 2 recipes", snap)
	}
	if snap.UpdatedAt.Before(before) {
		t.Fatalf("UpdatedAt = %v, want >= %v", snap.UpdatedAt, before)
	}
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1", snap.Version)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Feed[0].ID = "999"
	if s.Snapshot().Feed[0].ID != "1" {
		t.Fatalf("Snapshot should clone the feed")
	}
}

func TestStore_FailureKeepsFeedAndCountsFailures(t *testing.T) {
	var s Store

	s.Publish(State{Phase: Loaded, Feed: recipe.Feed{{ID: "1"}}})
	s.Apply(func(prev State) State {
		prev.Phase = Failed
		prev.Err = "boom"
		prev.Kind = TransportFailure
		return prev
	})

	snap := s.Snapshot()
	if len(snap.Feed) != 1 || snap.Feed[0].ID != "1" {
		t.Fatalf("feed changed on failure: %#v", snap.Feed)
	}
	if snap.Err != "boom" || snap.Kind != TransportFailure {
		t.Fatalf("Err/Kind = %q/%q, want boom/transport_failure", snap.Err, snap.Kind)
	}
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 1 and online", snap.ConsecutiveFailures)
	}

	s.Publish(State{Phase: Loading})
	s.Publish(State{Phase: Failed, Err: "again"})
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 2 and offline", snap.ConsecutiveFailures)
	}

	s.Publish(State{Phase: Loaded})
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want reset to 0", snap.ConsecutiveFailures)
	}
}

func TestStore_NonFailedClearsError(t *testing.T) {
	var s Store
	s.Publish(State{Phase: Failed, Err: "boom", Kind: EmptyBody})
	s.Publish(State{Phase: Loading, Err: "stale", Kind: EmptyBody})
	snap := s.Snapshot()
	if snap.Err != "" || snap.Kind != NoError {
		t.Fatalf("Loading state kept error %q/%q", snap.Err, snap.Kind)
	}
}

func TestSubscription_DeliversCurrentThenInOrder(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()
	defer sub.Close()

	s.Publish(State{Phase: Loading})
	s.Publish(State{Phase: Loaded})
	s.Publish(State{Phase: Loading})
	s.Publish(State{Phase: Failed, Err: "x"})

	want := []Phase{Idle, Loading, Loaded, Loading, Failed}
	for i, phase := range want {
		select {
		case got := <-sub.C():
			if got.Phase != phase {
				t.Fatalf("delivery %d = %q, want %q", i, got.Phase, phase)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for delivery %d", i)
		}
	}
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()
	sub.Close()
	sub.Close()

	s.Publish(State{Phase: Loading})

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after Close")
		}
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	tests := []struct {
		phase Phase
		want  bool
	}{
		{Idle, false},
		{Loading, false},
		{Loaded, true},
		{Failed, true},
	}
	for _, tt := range tests {
		if got := tt.phase.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.phase, got, tt.want)
		}
	}
}
