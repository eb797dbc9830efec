package model

import "context"

// SessionRepository persists one SessionState record per session id.
//
// Load returns found=false for an unknown session id; that means "fresh
// session", not an error. A Save for session X must be visible to the next
// Load for X issued after the Save returns (read-your-writes per session).
// No ordering is guaranteed across different session ids.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (state *SessionState, found bool, err error)
	Save(ctx context.Context, sessionID string, state *SessionState) error
}
