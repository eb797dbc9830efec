package handler

import (
	"context"

	"github.com/datasure/profiling-agent/internal/agent/clarify"
	"github.com/datasure/profiling-agent/internal/agent/model"
	"github.com/datasure/profiling-agent/internal/profiling"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

// resolveTable returns the table to profile. Resolution order: an explicit
// context value, then a heuristic match in the combined user text (verified
// against the database before use). When neither yields a table the
// clarification engine records the question and resolveTable reports false.
func resolveTable(ctx context.Context, engine *profiling.Engine, clarifier *clarify.Engine, state *model.SessionState) (string, bool) {
	if table, ok := state.ContextString("table"); ok {
		return table, true
	}

	if guess := profiling.ExtractTableName(state.CombinedUserText()); guess != "" {
		exists, err := engine.HasTable(ctx, guess)
		if err != nil {
			logx.Warn().Err(err).Str("table", guess).Msg("Table existence check failed")
		}
		if exists {
			state.SetContext("table", guess)
			logx.Debug().
				Str("session_id", state.SessionID).
				Str("table", guess).
				Msg("Extracted table name from user text")
			return guess, true
		}
	}

	clarifier.Run(state)
	return "", false
}
