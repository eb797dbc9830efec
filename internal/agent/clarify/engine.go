// Package clarify implements the missing-parameter clarification protocol:
// exactly one parameter is asked about per turn, answers are filled into the
// session context in order, and empty input re-asks the same question without
// consuming progress.
package clarify

import (
	"fmt"
	"strings"

	"github.com/datasure/profiling-agent/internal/agent/model"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

// Outcome tells the orchestrator what to do after a clarification step.
type Outcome int

const (
	// OutcomeAsk means a question was recorded and the turn must stop so the
	// caller can answer it.
	OutcomeAsk Outcome = iota
	// OutcomeReady means every required parameter is resolved and the intent
	// handler may run.
	OutcomeReady
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAsk:
		return "ask"
	case OutcomeReady:
		return "ready"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DefaultRequiredParams is the static per-intent table of required parameter
// names, in the order they are asked about.
func DefaultRequiredParams() map[string][]string {
	return map[string][]string{
		"nulls":     {"table"},
		"distincts": {"table"},
	}
}

// Engine resolves at most one missing parameter per turn.
type Engine struct {
	required map[string][]string
}

func NewEngine(required map[string][]string) *Engine {
	if required == nil {
		required = DefaultRequiredParams()
	}
	return &Engine{required: required}
}

// Required returns the ordered required-parameter list for an intent.
func (e *Engine) Required(intent string) []string {
	return e.required[intent]
}

// Run advances the clarification protocol one step against the session state.
//
// When the machine is awaiting input, the head of missing_params is the
// parameter being answered: non-empty user text fills it and either asks for
// the next parameter or reports ready; blank text re-asks verbatim and makes
// no progress. When nothing has been recorded yet, the required parameters
// for the current intent that are absent from context are recorded and the
// first one is asked about.
func (e *Engine) Run(state *model.SessionState) Outcome {
	userInput := strings.TrimSpace(state.UserText)

	// The user is answering the question at the head of missing_params.
	if state.AwaitingInput && len(state.MissingParams) > 0 {
		param := state.MissingParams[0]

		if userInput == "" {
			// No progress: re-ask the same question verbatim.
			state.Message = askFor(param)
			state.AwaitingInput = true
			return OutcomeAsk
		}

		state.SetContext(param, userInput)
		state.MissingParams = state.MissingParams[1:]
		logx.Debug().
			Str("session_id", state.SessionID).
			Str("param", param).
			Int("remaining", len(state.MissingParams)).
			Msg("Clarified parameter")

		if len(state.MissingParams) == 0 {
			state.AwaitingInput = false
			state.Resumed = false
			state.Message = fmt.Sprintf("Got it. Using %s = '%s'. Running analysis...", param, userInput)
			return OutcomeReady
		}

		next := state.MissingParams[0]
		state.AwaitingInput = true
		state.Resumed = false
		state.Message = fmt.Sprintf("Thanks, noted %s = '%s'. Please provide the %s next.", param, userInput, next)
		return OutcomeAsk
	}

	// Fresh detection: nothing recorded yet for this intent.
	missing := e.detectMissing(state)
	if len(missing) > 0 {
		state.AwaitingInput = true
		state.MissingParams = missing
		state.Message = askFor(missing[0])
		return OutcomeAsk
	}

	state.AwaitingInput = false
	state.MissingParams = []string{}
	return OutcomeReady
}

// detectMissing lists the required parameters for the current intent that are
// absent from context, preserving table order.
func (e *Engine) detectMissing(state *model.SessionState) []string {
	var missing []string
	for _, param := range e.required[state.Intent] {
		if !state.HasParam(param) {
			missing = append(missing, param)
		}
	}
	return missing
}

func askFor(param string) string {
	return fmt.Sprintf("Please provide the %s to continue.", param)
}
