package model

// Payload is the structured result of a completed handler invocation.
type Payload struct {
	Summary       string         `json:"summary"`
	Metadata      Metadata       `json:"metadata"`
	Sample        *SampleData    `json:"sample,omitempty"`
	Visualization *Visualization `json:"visualization,omitempty"`
	Insights      []Insight      `json:"insights,omitempty"`
	LLMCommentary string         `json:"llm_commentary,omitempty"`
	Provenance    *Provenance    `json:"provenance,omitempty"`
	Diagnostics   *Diagnostics   `json:"diagnostics,omitempty"`
}

// Metadata describes the query that produced a payload.
type Metadata struct {
	Table           string  `json:"table,omitempty"`
	RowsScanned     int64   `json:"rows_scanned,omitempty"`
	ColumnsProfiled int     `json:"columns_profiled,omitempty"`
	ExecutionTimeMs float64 `json:"execution_time_ms,omitempty"`
	SQL             string  `json:"sql,omitempty"`
	DataSource      string  `json:"data_source,omitempty"`
}

// Insight severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Insight is a single finding derived from profiling results.
type Insight struct {
	ID               string         `json:"id,omitempty"`
	Type             string         `json:"type"`
	Severity         string         `json:"severity,omitempty"`
	Metric           string         `json:"metric,omitempty"`
	Value            map[string]any `json:"value,omitempty"`
	Columns          []string       `json:"columns,omitempty"`
	Description      string         `json:"description"`
	Evidence         map[string]any `json:"evidence,omitempty"`
	Actionable       bool           `json:"actionable,omitempty"`
	SuggestedActions []string       `json:"suggested_actions,omitempty"`
}

// Visualization carries chart-ready rows for the UI.
type Visualization struct {
	ChartType string           `json:"chart_type"`
	ChartData []map[string]any `json:"chart_data,omitempty"`
}

// SampleData holds example rows when a handler includes them.
type SampleData struct {
	SampleType     string           `json:"sample_type,omitempty"`
	SampleSize     int              `json:"sample_size,omitempty"`
	TotalAvailable int64            `json:"total_available,omitempty"`
	Rows           []map[string]any `json:"rows"`
}

// Provenance names the components that produced a payload.
type Provenance struct {
	Engine     string   `json:"engine,omitempty"`
	Executor   string   `json:"executor,omitempty"`
	LLMUsedFor []string `json:"llm_used_for,omitempty"`
}

// Diagnostics accumulates non-fatal problems encountered while building a payload.
type Diagnostics struct {
	Warnings  []string `json:"warnings,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}
