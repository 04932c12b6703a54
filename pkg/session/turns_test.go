package session

import (
	"testing"
	"time"
)

func TestTurnCounterNext(t *testing.T) {
	tc := NewTurnCounter()

	if got := tc.Next("CA1"); got != 1 {
		t.Errorf("first turn = %d, want 1", got)
	}
	if got := tc.Next("CA1"); got != 2 {
		t.Errorf("second turn = %d, want 2", got)
	}
	if got := tc.Next("CA2"); got != 1 {
		t.Errorf("other call first turn = %d, want 1", got)
	}
}

func TestTurnCounterForget(t *testing.T) {
	tc := NewTurnCounter()

	tc.Next("CA1")
	tc.Next("CA1")
	tc.Forget("CA1")

	if got := tc.Next("CA1"); got != 1 {
		t.Errorf("turn after Forget = %d, want 1", got)
	}
}

func TestTurnCounterPrunesStaleEntries(t *testing.T) {
	tc := NewTurnCounter()

	tc.Next("CA-old")
	tc.mu.Lock()
	tc.entries["CA-old"].lastSeen = time.Now().Add(-turnEntryTTL - time.Minute)
	tc.mu.Unlock()

	// Any Next call sweeps expired entries.
	tc.Next("CA-new")

	tc.mu.Lock()
	_, ok := tc.entries["CA-old"]
	tc.mu.Unlock()
	if ok {
		t.Error("stale entry survived prune")
	}
}
