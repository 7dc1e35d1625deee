package usecase

import (
	"strings"
	"sync"
)

// sessionLocks serializes work per shopper session and tracks in-flight checkouts.
// 参照カウントが 0 になったエントリは削除する。
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	mu       sync.Mutex
	refs     int
	checkout bool
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{entries: map[string]*sessionEntry{}}
}

func (l *sessionLocks) acquire(id string) *sessionEntry {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &sessionEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()
	return e
}

func (l *sessionLocks) release(id string, e *sessionEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 && !e.checkout {
		delete(l.entries, id)
	}
	l.mu.Unlock()
}

// lock runs fn while holding the session lock.
func (l *sessionLocks) lock(id string, fn func()) {
	e := l.acquire(id)
	defer l.release(id, e)

	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// beginCheckout marks the session as submitting. false if a submission is already running.
func (l *sessionLocks) beginCheckout(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		e = &sessionEntry{}
		l.entries[id] = e
	}
	if e.checkout {
		return false
	}
	e.checkout = true
	return true
}

func (l *sessionLocks) endCheckout(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return
	}
	e.checkout = false
	if e.refs == 0 {
		delete(l.entries, id)
	}
}

func normalizeSessionID(id string) string {
	return strings.TrimSpace(id)
}
