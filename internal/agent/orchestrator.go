// Package agent ties the session store, classifier, clarification engine,
// router and handlers together into one per-turn control loop. Each turn is a
// complete unit of work: state is reconstructed from the store, advanced
// exactly one step, and persisted only after the whole turn succeeds.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datasure/profiling-agent/internal/agent/classify"
	"github.com/datasure/profiling-agent/internal/agent/clarify"
	"github.com/datasure/profiling-agent/internal/agent/handler"
	"github.com/datasure/profiling-agent/internal/agent/model"
	"github.com/datasure/profiling-agent/internal/agent/route"
	errx "github.com/datasure/profiling-agent/internal/core/error"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

const DefaultCallTimeout = 30 * time.Second

// TurnRequest is one caller-submitted turn.
type TurnRequest struct {
	SessionID string
	UserText  string
	Context   map[string]any
}

// TurnResponse is what the caller gets back after a turn completes.
type TurnResponse struct {
	SessionID  string         `json:"session_id"`
	Message    string         `json:"message"`
	Payload    *model.Payload `json:"payload,omitempty"`
	NextPrompt string         `json:"next_prompt,omitempty"`
}

// Orchestrator runs the per-turn control loop.
type Orchestrator struct {
	repo        model.SessionRepository
	classifier  classify.Classifier
	registry    *handler.Registry
	clarifier   *clarify.Engine
	locks       *sessionLocks
	callTimeout time.Duration
}

func NewOrchestrator(
	repo model.SessionRepository,
	classifier classify.Classifier,
	registry *handler.Registry,
	clarifier *clarify.Engine,
	callTimeout time.Duration,
) *Orchestrator {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Orchestrator{
		repo:        repo,
		classifier:  classifier,
		registry:    registry,
		clarifier:   clarifier,
		locks:       newSessionLocks(),
		callTimeout: callTimeout,
	}
}

// Turn processes one turn end to end: load or create state, merge the new
// input, classify when needed, route, clarify or dispatch, persist, respond.
// At most one re-route happens per turn, so a freshly completed clarification
// can dispatch immediately without any chance of unbounded traversal.
//
// The returned error is reserved for session store failures; every other
// problem is reported inside the TurnResponse.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	mu := o.locks.get(sessionID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	o.mergeTurn(state, req)

	if state.Intent == "" && strings.TrimSpace(state.UserText) != "" {
		o.classifyIntent(ctx, state)
	}

	decision := route.Route(state, o.registry)
	logx.Debug().
		Str("session_id", sessionID).
		Str("decision", decision.Kind.String()).
		Str("handler", decision.Handler).
		Msg("Routed turn")

	switch decision.Kind {
	case route.Clarify:
		if outcome := o.clarifier.Run(state); outcome == clarify.OutcomeReady {
			o.promoteIntent(state)
			// One re-route, so the answer that completed clarification can
			// run its handler in the same turn.
			if second := route.Route(state, o.registry); second.Kind == route.Dispatch {
				o.dispatch(ctx, second.Handler, state)
			}
		}
	case route.Dispatch:
		o.dispatch(ctx, decision.Handler, state)
	case route.Stop:
		// Control returns to the caller; the next turn makes progress.
	}

	if err := o.repo.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}

	return &TurnResponse{
		SessionID:  state.SessionID,
		Message:    state.Message,
		Payload:    state.Payload,
		NextPrompt: state.NextPrompt,
	}, nil
}

// loadState fetches prior state for the session, or a fresh one. Store
// unavailability is the only fatal outcome; a corrupt record is replaced by a
// fresh state so one bad row cannot wedge a session forever.
func (o *Orchestrator) loadState(ctx context.Context, sessionID string) (*model.SessionState, error) {
	prior, found, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		var appErr *errx.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("Discarding unreadable session state")
		return model.NewSessionState(sessionID), nil
	}
	if !found {
		return model.NewSessionState(sessionID), nil
	}
	if !prior.InvariantOK() {
		logx.Warn().
			Str("session_id", sessionID).
			Bool("awaiting_input", prior.AwaitingInput).
			Int("missing_params", len(prior.MissingParams)).
			Msg("Persisted state violates clarification invariant, treating session as fresh")
		fresh := model.NewSessionState(sessionID)
		fresh.SetProvenance("normalized", "prior state violated awaiting/missing invariant")
		return fresh, nil
	}
	prior.SessionID = sessionID
	return prior, nil
}

// mergeTurn folds the new turn into the state: history append, caller context
// updates (caller keys win), and the resumption flag. Resuming a session that
// was not awaiting input clears the intent so the new utterance is classified
// from scratch; established context values are kept.
func (o *Orchestrator) mergeTurn(state *model.SessionState, req TurnRequest) {
	resumedMidClarification := state.AwaitingInput && len(state.UserTextHistory) > 0
	if len(state.UserTextHistory) > 0 && !state.AwaitingInput {
		state.Intent = ""
		state.Payload = nil
		state.NextPrompt = ""
	}

	state.UserTextHistory = append(state.UserTextHistory, req.UserText)
	state.UserText = req.UserText
	state.Resumed = resumedMidClarification
	state.MergeContext(req.Context)
}

// classifyIntent asks the external classifier for an intent label. Failures
// are downgraded to "no intent detected": the router then asks the user for
// guidance instead of surfacing an error.
func (o *Orchestrator) classifyIntent(ctx context.Context, state *model.SessionState) {
	cctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	result, err := o.classifier.Classify(cctx, state.CombinedUserText())
	if err != nil {
		logx.Warn().Err(err).Str("session_id", state.SessionID).Msg("Intent classification failed")
		state.SetProvenance("intent_detection", map[string]any{"error": err.Error()})
		return
	}

	state.Intent = result.Intent
	state.SetProvenance("intent_detection", map[string]any{
		"intent":      result.Intent,
		"explanation": result.Explanation,
	})
}

// promoteIntent lifts a clarified "intent" answer out of the context into the
// intent field, so the re-route sees it. The router still decides whether the
// label is supported.
func (o *Orchestrator) promoteIntent(state *model.SessionState) {
	if state.Intent != "" {
		return
	}
	if answer, ok := state.ContextString("intent"); ok {
		state.Intent = strings.ToLower(answer)
		state.SetProvenance("intent_promotion", "clarified answer used as intent")
	}
}

// dispatch runs the named handler under a deadline with panic containment. On
// failure the response describes the problem and carries a diagnostics-only
// payload, while awaiting_input and missing_params keep the values they had
// entering dispatch so a crash never yanks the conversation into an
// unintended clarification loop.
func (o *Orchestrator) dispatch(ctx context.Context, name string, state *model.SessionState) {
	h, ok := o.registry.Get(name)
	if !ok {
		state.Message = fmt.Sprintf("No handler registered as '%s'.", name)
		return
	}

	prevAwaiting := state.AwaitingInput
	prevMissing := append([]string(nil), state.MissingParams...)

	if err := o.runHandler(ctx, h, state); err != nil {
		logx.Error().Err(err).
			Str("session_id", state.SessionID).
			Str("handler", name).
			Msg("Handler dispatch failed")

		state.AwaitingInput = prevAwaiting
		state.MissingParams = prevMissing
		state.Message = fmt.Sprintf("The %s step failed: %v", name, err)
		state.Payload = &model.Payload{
			Summary:     state.Message,
			Metadata:    model.Metadata{Table: tableFromContext(state)},
			Diagnostics: &model.Diagnostics{Errors: []string{err.Error()}},
		}
		state.NextPrompt = ""
	}
}

func (o *Orchestrator) runHandler(ctx context.Context, h handler.Handler, state *model.SessionState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return h.Handle(cctx, state)
}

func tableFromContext(state *model.SessionState) string {
	table, _ := state.ContextString("table")
	return table
}
