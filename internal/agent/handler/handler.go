// Package handler hosts the intent handlers and their registry. A handler
// owns the session state for the remainder of its turn: it fills the payload
// and message on success, and may hand the state back to clarification when a
// domain parameter is still missing.
package handler

import (
	"context"

	"github.com/datasure/profiling-agent/internal/agent/model"
)

// Handler performs the work for one intent.
type Handler interface {
	// Name is the stable handler identifier used in routing decisions.
	Name() string

	// Handle consumes and mutates the session state. On success it sets
	// payload, message and optionally next_prompt, with awaiting_input
	// cleared. It may instead set awaiting_input with missing_params when it
	// discovers a missing domain parameter. An error return means the
	// handler crashed; the orchestrator converts it into a diagnostic
	// response without touching the clarification flags.
	Handle(ctx context.Context, state *model.SessionState) error
}

// Registry maps intent labels to registered handlers.
type Registry struct {
	byIntent map[string]Handler
	byName   map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		byIntent: map[string]Handler{},
		byName:   map[string]Handler{},
	}
}

// Register binds an intent label to a handler.
func (r *Registry) Register(intent string, h Handler) {
	r.byIntent[intent] = h
	r.byName[h.Name()] = h
}

// Resolve returns the handler name registered for an intent.
func (r *Registry) Resolve(intent string) (string, bool) {
	h, ok := r.byIntent[intent]
	if !ok {
		return "", false
	}
	return h.Name(), true
}

// Get looks a handler up by its name.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.byName[name]
	return h, ok
}
