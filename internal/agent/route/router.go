// Package route holds the per-turn routing decision. Routing is an explicit
// function of session state with a fixed decision order, so every turn either
// dispatches a handler, runs one clarification step, or stops and returns
// control to the caller. Nothing here can recurse.
package route

import (
	"fmt"

	"github.com/datasure/profiling-agent/internal/agent/model"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

// Kind is the routing verdict for one turn.
type Kind int

const (
	// Stop returns control to the caller; the next turn must supply input.
	Stop Kind = iota
	// Clarify runs the clarification engine before anything else this turn.
	Clarify
	// Dispatch invokes the handler named in Decision.Handler.
	Dispatch
)

func (k Kind) String() string {
	switch k {
	case Stop:
		return "stop"
	case Clarify:
		return "clarify"
	case Dispatch:
		return "dispatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Decision is the outcome of routing one turn.
type Decision struct {
	Kind    Kind
	Handler string
}

// Resolver maps an intent label to a registered handler name.
type Resolver interface {
	Resolve(intent string) (handlerName string, ok bool)
}

const guidanceMessage = "I couldn't identify what you want to do. " +
	"Please specify - for example, 'show nulls' or 'check distincts'."

// Route decides what this turn does, in fixed order:
//
//  1. awaiting input without a fresh reply: stop, the caller must answer first
//  2. awaiting input with a fresh reply: run clarification
//  3. no intent: record a single guidance question and stop
//  4. known intent: dispatch its handler
//  5. unknown intent: record an "unsupported" question and stop
//
// Steps 3 and 5 write the question onto the state; everything else only reads.
// Every Stop hands control back to the caller, so unresolved intents can never
// loop.
func Route(state *model.SessionState, resolver Resolver) Decision {
	if state.AwaitingInput && !state.Resumed {
		return Decision{Kind: Stop}
	}

	if state.AwaitingInput && state.Resumed {
		return Decision{Kind: Clarify}
	}

	if state.Intent == "" {
		state.Message = guidanceMessage
		state.AwaitingInput = true
		state.MissingParams = []string{"intent"}
		logx.Debug().Str("session_id", state.SessionID).Msg("No intent detected, asking for guidance")
		return Decision{Kind: Stop}
	}

	if name, ok := resolver.Resolve(state.Intent); ok {
		return Decision{Kind: Dispatch, Handler: name}
	}

	state.Message = fmt.Sprintf("I'm not sure how to handle '%s'. Try 'nulls' or 'distincts'.", state.Intent)
	state.AwaitingInput = true
	state.MissingParams = []string{"intent"}
	logx.Debug().Str("session_id", state.SessionID).Str("intent", state.Intent).Msg("Unsupported intent")
	return Decision{Kind: Stop}
}
