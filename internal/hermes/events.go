package hermes

import (
	"encoding/json"
	"time"
)

// AnalysisRequestEvent asks the service to run an analysis. Exactly one of
// Companies or Alternatives should be set.
type AnalysisRequestEvent struct {
	RequestID    string                 `json:"request_id,omitempty"`
	Method       string                 `json:"method"`
	Companies    []int64                `json:"companies,omitempty"`
	Alternatives json.RawMessage        `json:"alternatives,omitempty"`
	Criteria     []string               `json:"criteria,omitempty"`
	Params       map[string]interface{} `json:"params,omitempty"`
	Source       string                 `json:"source,omitempty"`
}

type RankedEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

type AnalysisCompletedEvent struct {
	AnalysisID string        `json:"analysis_id"`
	RequestID  string        `json:"request_id,omitempty"`
	Method     string        `json:"method"`
	Ranked     []RankedEntry `json:"ranked"`
	Warnings   []string      `json:"warnings,omitempty"`
	DurationMs float64       `json:"duration_ms"`
	Timestamp  time.Time     `json:"timestamp"`
}

type AnalysisFailedEvent struct {
	AnalysisID  string    `json:"analysis_id"`
	RequestID   string    `json:"request_id,omitempty"`
	Method      string    `json:"method"`
	Error       string    `json:"error"`
	Kind        string    `json:"kind,omitempty"`
	Criterion   string    `json:"criterion,omitempty"`
	Alternative string    `json:"alternative,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
