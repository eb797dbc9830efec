package model

import "strings"

// SessionState carries everything needed to resume a conversation. One
// instance exists per session id; between turns it is owned by the session
// repository, during a turn by the orchestrator.
type SessionState struct {
	SessionID       string         `json:"session_id"`
	UserText        string         `json:"user_text"`
	UserTextHistory []string       `json:"user_text_history"`
	Resumed         bool           `json:"resumed"`
	Intent          string         `json:"intent,omitempty"`
	AwaitingInput   bool           `json:"awaiting_input"`
	MissingParams   []string       `json:"missing_params"`
	Context         map[string]any `json:"context"`
	Message         string         `json:"message,omitempty"`
	Payload         *Payload       `json:"payload,omitempty"`
	NextPrompt      string         `json:"next_prompt,omitempty"`

	// Provenance records how facts were derived (e.g. which component set
	// the intent). Diagnostics only; routing never reads it.
	Provenance map[string]any `json:"provenance,omitempty"`
}

// NewSessionState returns a fresh state for the given session id.
func NewSessionState(sessionID string) *SessionState {
	return &SessionState{
		SessionID:       sessionID,
		UserTextHistory: []string{},
		MissingParams:   []string{},
		Context:         map[string]any{},
		Provenance:      map[string]any{},
	}
}

// InvariantOK reports whether the awaiting/missing-params invariant holds:
// missing_params is non-empty exactly when awaiting_input is set.
func (s *SessionState) InvariantOK() bool {
	if s.AwaitingInput {
		return len(s.MissingParams) > 0
	}
	return len(s.MissingParams) == 0
}

// CombinedUserText joins the full utterance history into one string for the
// classifier and for parameter extraction heuristics. Insertion order is
// preserved.
func (s *SessionState) CombinedUserText() string {
	parts := make([]string, 0, len(s.UserTextHistory)+1)
	parts = append(parts, s.UserTextHistory...)
	if s.UserText != "" && (len(s.UserTextHistory) == 0 || s.UserTextHistory[len(s.UserTextHistory)-1] != s.UserText) {
		parts = append(parts, s.UserText)
	}
	return strings.Join(parts, "\n")
}

// ContextString returns context[key] as a trimmed string. Non-string values
// and absent keys yield ("", false).
func (s *SessionState) ContextString(key string) (string, bool) {
	if s.Context == nil {
		return "", false
	}
	v, ok := s.Context[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok {
		return "", false
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return "", false
	}
	return str, true
}

// HasParam reports whether a parameter is present in context with a usable
// value. Empty or whitespace-only strings count as absent.
func (s *SessionState) HasParam(key string) bool {
	if s.Context == nil {
		return false
	}
	v, ok := s.Context[key]
	if !ok || v == nil {
		return false
	}
	if str, isStr := v.(string); isStr {
		return strings.TrimSpace(str) != ""
	}
	return true
}

// SetContext stores a resolved parameter value, allocating the map on first use.
func (s *SessionState) SetContext(key string, value any) {
	if s.Context == nil {
		s.Context = map[string]any{}
	}
	s.Context[key] = value
}

// SetProvenance records a derivation fact, allocating the map on first use.
func (s *SessionState) SetProvenance(key string, value any) {
	if s.Provenance == nil {
		s.Provenance = map[string]any{}
	}
	s.Provenance[key] = value
}

// MergeContext applies caller-supplied context updates. Shallow merge, caller
// keys win over prior values.
func (s *SessionState) MergeContext(updates map[string]any) {
	if len(updates) == 0 {
		return
	}
	if s.Context == nil {
		s.Context = map[string]any{}
	}
	for k, v := range updates {
		s.Context[k] = v
	}
}
