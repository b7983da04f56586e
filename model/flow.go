package model

import (
	"fmt"
	"time"
)

type TimerMode string

const TIMER_MODE_INTERVAL TimerMode = "interval"
const TIMER_MODE_COUNTDOWN TimerMode = "countdown"
const TIMER_MODE_SCHEDULE TimerMode = "schedule"

// Flow is a user defined automation rule: a trigger, an optional condition
// tree and an ordered list of actions. Flows are owned by the storage layer;
// the engine reads them per event and never mutates them.
type Flow struct {
	Id        string       `json:"id"`
	Name      string       `json:"name"`
	Enabled   bool         `json:"enabled"`
	Trigger   string       `json:"trigger"`
	Condition *Condition   `json:"condition,omitempty"`
	Actions   []ActionSpec `json:"actions"`
	Timer     *TimerSpec   `json:"timer,omitempty"`
}

// Condition carries both supported shapes. A group node sets Logic and
// Conditions, a leaf sets Operator/Field/Value. A nil condition matches
// everything.
type Condition struct {
	Logic      string      `json:"logic,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
	Operator   string      `json:"operator,omitempty"`
	Field      string      `json:"field,omitempty"`
	Value      any         `json:"value,omitempty"`
}

func (c *Condition) IsGroup() bool {
	return c != nil && c.Logic != ""
}

type ActionSpec struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"parameters,omitempty"`
}

type TimerSpec struct {
	Mode             TimerMode `json:"mode"`
	IntervalSeconds  int       `json:"intervalSeconds,omitempty"`
	CountdownSeconds int       `json:"countdownSeconds,omitempty"`
	Time             string    `json:"time,omitempty"`
	Days             []string  `json:"days,omitempty"`
}

func (f Flow) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("flow name can not be empty")
	}
	if f.Trigger == "" {
		return fmt.Errorf("flow %s has no trigger", f.Name)
	}
	if len(f.Actions) == 0 {
		return fmt.Errorf("flow %s has no actions", f.Name)
	}
	for i, act := range f.Actions {
		if act.Type == "" {
			return fmt.Errorf("flow %s action %d has no type", f.Name, i)
		}
	}
	if f.Timer != nil {
		if err := f.Timer.Validate(); err != nil {
			return fmt.Errorf("flow %s: %w", f.Name, err)
		}
	}
	return nil
}

func (t TimerSpec) Validate() error {
	switch t.Mode {
	case TIMER_MODE_INTERVAL:
		if t.IntervalSeconds <= 0 {
			return fmt.Errorf("interval timer needs intervalSeconds > 0")
		}
	case TIMER_MODE_COUNTDOWN:
		if t.CountdownSeconds <= 0 {
			return fmt.Errorf("countdown timer needs countdownSeconds > 0")
		}
	case TIMER_MODE_SCHEDULE:
		if _, err := time.Parse("15:04", t.Time); err != nil {
			return fmt.Errorf("schedule timer has invalid time %q", t.Time)
		}
	default:
		return fmt.Errorf("unknown timer mode %q", t.Mode)
	}
	return nil
}
