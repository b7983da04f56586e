package model

// SETTING_AUTOMATION_ENABLED is the global kill switch read before any flow
// matching happens. A missing setting counts as enabled.
const SETTING_AUTOMATION_ENABLED string = "automationEnabled"

type Setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}
