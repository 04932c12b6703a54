package session

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("sender")
			counter++
			km.Unlock("sender")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("a")
	km.Unlock("a")
	km.Lock("b")
	km.Unlock("b")

	km.mu.Lock()
	n := len(km.locks)
	km.mu.Unlock()
	if n != 0 {
		t.Errorf("lock map holds %d entries after release, want 0", n)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("a")
	done := make(chan struct{})
	go func() {
		// A different key must not block behind "a".
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()
	<-done
	km.Unlock("a")
}

func TestKeyedMutexUnlockUnknownKey(t *testing.T) {
	km := NewKeyedMutex()
	// Must not panic.
	km.Unlock("never-locked")
}
