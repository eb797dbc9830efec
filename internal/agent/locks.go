package agent

import "sync"

// sessionLocks serializes turns per session id. Turns for different session
// ids proceed in parallel; turns for the same id queue on one mutex so reads
// and writes of a session's state never interleave.
//
// Locks are kept for the life of the process. A mutex is a few dozen bytes,
// so even a large session population stays cheap relative to the state the
// store already holds for it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[string]*sync.Mutex{}}
}

// get returns the mutex for a session id, creating it on first use.
func (l *sessionLocks) get(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	return m
}
