package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/datasure/profiling-agent/internal/agent/model"
)

// MemorySessionRepository keeps session state in process memory. Suitable for
// single-instance deployments and tests; state does not survive a restart.
//
// Records are stored as JSON so callers get value semantics identical to the
// Redis-backed repository: mutating a loaded state never leaks into the store
// until it is saved again.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[string][]byte{}}
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) (*model.SessionState, bool, error) {
	r.mu.RLock()
	raw, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	var state model.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, false, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &state, true, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, sessionID string, state *model.SessionState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	r.mu.Lock()
	r.sessions[sessionID] = b
	r.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions.
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
