package session

import (
	"sync"
	"time"
)

// turnEntryTTL bounds how long a call's turn counter survives after its
// last gather. Call teardown is not observable from the webhook, so stale
// entries are pruned by age instead.
const turnEntryTTL = 4 * time.Hour

// TurnCounter tracks turn numbers per voice call so the gather loop can be
// capped instead of re-prompting forever.
type TurnCounter struct {
	mu      sync.Mutex
	entries map[string]*turnEntry
}

type turnEntry struct {
	count    int
	lastSeen time.Time
}

func NewTurnCounter() *TurnCounter {
	return &TurnCounter{entries: make(map[string]*turnEntry)}
}

// Next increments and returns the turn number for a call.
func (tc *TurnCounter) Next(callSID string) int {
	now := time.Now()

	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.prune(now)

	e, ok := tc.entries[callSID]
	if !ok {
		e = &turnEntry{}
		tc.entries[callSID] = e
	}
	e.count++
	e.lastSeen = now
	return e.count
}

// Forget drops a call's counter, used once the adapter has ended the call.
func (tc *TurnCounter) Forget(callSID string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	delete(tc.entries, callSID)
}

func (tc *TurnCounter) prune(now time.Time) {
	for sid, e := range tc.entries {
		if now.Sub(e.lastSeen) > turnEntryTTL {
			delete(tc.entries, sid)
		}
	}
}
