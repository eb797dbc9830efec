package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/datasure/profiling-agent/internal/agent/clarify"
	"github.com/datasure/profiling-agent/internal/agent/model"
	"github.com/datasure/profiling-agent/internal/profiling"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

// NullCount computes NULL counts per column for a table, asking for the table
// name conversationally when it is not known yet.
type NullCount struct {
	engine    *profiling.Engine
	clarifier *clarify.Engine
}

func NewNullCount(engine *profiling.Engine, clarifier *clarify.Engine) *NullCount {
	return &NullCount{engine: engine, clarifier: clarifier}
}

func (h *NullCount) Name() string { return "null_count" }

func (h *NullCount) Handle(ctx context.Context, state *model.SessionState) error {
	start := time.Now()

	table, ok := resolveTable(ctx, h.engine, h.clarifier, state)
	if !ok {
		return nil // clarification question recorded
	}

	diagnostics := &model.Diagnostics{}

	cols, err := h.engine.Columns(ctx, table)
	if err != nil || len(cols) == 0 {
		if err == nil {
			err = fmt.Errorf("no columns found in table")
		}
		diagnostics.Errors = append(diagnostics.Errors, err.Error())
		state.Message = fmt.Sprintf("Could not generate SQL for %s: %v", table, err)
		return nil
	}

	query, err := profiling.NullCountQuery(table, cols)
	if err != nil {
		diagnostics.Errors = append(diagnostics.Errors, err.Error())
		state.Message = fmt.Sprintf("Could not generate SQL for %s: %v", table, err)
		return nil
	}

	row, err := h.engine.FirstRow(ctx, query)
	if err != nil {
		diagnostics.Errors = append(diagnostics.Errors, fmt.Sprintf("Execution failed: %v", err))
		state.Message = fmt.Sprintf("Error executing SQL: %v", err)
		return nil
	}

	chartData := make([]map[string]any, 0, len(row))
	insights := make([]model.Insight, 0, len(row))
	for _, cell := range row {
		column := profiling.TrimNullSuffix(cell.Column)
		chartData = append(chartData, map[string]any{
			"column":     column,
			"null_count": cell.Value,
		})
		if cell.Value > 0 {
			insights = append(insights, model.Insight{
				ID:          uuid.NewString(),
				Type:        "missing_values",
				Severity:    model.SeverityWarning,
				Metric:      "null_count",
				Description: fmt.Sprintf("Column '%s' has %d NULL values.", column, cell.Value),
				Columns:     []string{column},
				Value:       map[string]any{"null_count": cell.Value},
				Evidence:    map[string]any{"sql": query},
				Actionable:  true,
				SuggestedActions: []string{
					fmt.Sprintf("Filter rows WHERE %s IS NULL", column),
				},
			})
		}
	}
	if len(insights) == 0 {
		insights = append(insights, model.Insight{
			ID:          uuid.NewString(),
			Type:        "missing_values",
			Severity:    model.SeverityInfo,
			Metric:      "null_count",
			Description: "No missing values detected in this table.",
			Value:       map[string]any{"null_count": 0},
			Evidence:    map[string]any{"sql": query},
		})
	}

	payload := &model.Payload{
		Summary: fmt.Sprintf("Computed null counts for %d columns in table %s.", len(chartData), table),
		Metadata: model.Metadata{
			Table:           table,
			ColumnsProfiled: len(chartData),
			ExecutionTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
			SQL:             query,
		},
		Visualization: &model.Visualization{
			ChartType: "bar",
			ChartData: chartData,
		},
		Insights:    insights,
		Provenance:  &model.Provenance{Engine: h.engine.Name(), Executor: h.Name()},
		Diagnostics: diagnostics,
	}

	state.Payload = payload
	state.Message = payload.Summary
	state.AwaitingInput = false
	state.MissingParams = []string{}
	state.NextPrompt = "Would you like to see distinct counts next?"

	logx.Debug().
		Str("session_id", state.SessionID).
		Str("table", table).
		Int("columns", len(chartData)).
		Msg("Null count profiling complete")
	return nil
}

var _ Handler = (*NullCount)(nil)
