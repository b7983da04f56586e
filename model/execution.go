package model

import "time"

type ActionResult struct {
	Type       string `json:"type"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// ExecutionRecord is appended to the engine history for every flow run whose
// condition matched. Success means every executed action succeeded.
type ExecutionRecord struct {
	ExecutionId   string         `json:"executionId"`
	FlowId        string         `json:"flowId"`
	FlowName      string         `json:"flowName"`
	Success       bool           `json:"success"`
	ActionResults []ActionResult `json:"actionResults,omitempty"`
	DurationMs    int64          `json:"durationMs"`
	Error         string         `json:"error,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

type EngineStats struct {
	TotalExecutions int64   `json:"totalExecutions"`
	SuccessCount    int64   `json:"successCount"`
	FailureCount    int64   `json:"failureCount"`
	EventsReceived  int64   `json:"eventsReceived"`
	AvgDurationMs   float64 `json:"avgDurationMs"`
	HistorySize     int     `json:"historySize"`
	TotalFlows      int     `json:"totalFlows"`
	ActiveFlows     int     `json:"activeFlows"`
	Triggers        int     `json:"triggers"`
	Operators       int     `json:"operators"`
	Actions         int     `json:"actions"`
}
