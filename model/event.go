package model

import "time"

// Event is a single occurrence delivered by an event source adapter or
// synthesized by the timer scheduler.
type Event struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type NotificationType string

const NOTIFY_EVENT_RECEIVED NotificationType = "event_received"
const NOTIFY_FLOW_STARTED NotificationType = "flow_started"
const NOTIFY_CONDITIONS_MET NotificationType = "conditions_met"
const NOTIFY_FLOW_SKIPPED NotificationType = "flow_skipped"
const NOTIFY_ACTION_STARTED NotificationType = "action_started"
const NOTIFY_ACTION_COMPLETED NotificationType = "action_completed"
const NOTIFY_ACTION_FAILED NotificationType = "action_failed"
const NOTIFY_FLOW_COMPLETED NotificationType = "flow_completed"
const NOTIFY_FLOW_ERROR NotificationType = "flow_error"

// Notification is published on the engine feed for every lifecycle step so
// dashboards and collectors can follow executions live. Publication is fire
// and forget; slow consumers lose notifications, never block flows.
type Notification struct {
	Type        NotificationType `json:"type"`
	FlowId      string           `json:"flowId,omitempty"`
	FlowName    string           `json:"flowName,omitempty"`
	ExecutionId string           `json:"executionId,omitempty"`
	Action      string           `json:"action,omitempty"`
	Error       string           `json:"error,omitempty"`
	Data        map[string]any   `json:"data,omitempty"`
	Record      *ExecutionRecord `json:"record,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}
