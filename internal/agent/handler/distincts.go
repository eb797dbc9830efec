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

// DistinctCount computes distinct value counts per column for a table, asking
// for the table name conversationally when it is not known yet.
type DistinctCount struct {
	engine    *profiling.Engine
	clarifier *clarify.Engine
}

func NewDistinctCount(engine *profiling.Engine, clarifier *clarify.Engine) *DistinctCount {
	return &DistinctCount{engine: engine, clarifier: clarifier}
}

func (h *DistinctCount) Name() string { return "distinct_count" }

func (h *DistinctCount) Handle(ctx context.Context, state *model.SessionState) error {
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

	query, err := profiling.DistinctCountQuery(table, cols)
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
		column := profiling.TrimDistinctSuffix(cell.Column)
		chartData = append(chartData, map[string]any{
			"column":         column,
			"distinct_count": cell.Value,
		})
		insights = append(insights, model.Insight{
			ID:          uuid.NewString(),
			Type:        "distinct_values",
			Severity:    model.SeverityInfo,
			Metric:      "distinct_count",
			Description: fmt.Sprintf("Column '%s' has %d distinct values.", column, cell.Value),
			Columns:     []string{column},
			Value:       map[string]any{"distinct_count": cell.Value},
			Evidence:    map[string]any{"sql": query},
		})
	}

	payload := &model.Payload{
		Summary: fmt.Sprintf("Computed distinct counts for %d columns in table %s.", len(chartData), table),
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
	state.NextPrompt = "Would you like to see null counts or full profile next?"

	logx.Debug().
		Str("session_id", state.SessionID).
		Str("table", table).
		Int("columns", len(chartData)).
		Msg("Distinct count profiling complete")
	return nil
}

var _ Handler = (*DistinctCount)(nil)
