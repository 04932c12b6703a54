package session

import "sync"

// KeyedMutex serializes work per session key so near-simultaneous chat
// messages from one sender are processed in arrival order. Entries are
// reference-counted and removed once the last waiter releases, so the map
// does not grow with the number of senders ever seen.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		kl = &keyLock{}
		km.locks[key] = kl
	}
	kl.refs++
	km.mu.Unlock()

	kl.mu.Lock()
}

func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		km.mu.Unlock()
		return
	}
	kl.refs--
	if kl.refs <= 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	kl.mu.Unlock()
}
