package persistence

import (
	"fmt"

	"github.com/castflow/castflow/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// FlowDao owns flow definitions. The engine only reads; writes come from
// the admin REST surface.
type FlowDao interface {
	SaveFlow(flow model.Flow) error

	DeleteFlow(id string) error

	GetFlow(id string) (*model.Flow, error)

	GetFlows() ([]model.Flow, error)

	GetEnabledFlows() ([]model.Flow, error)
}

// SettingDao stores dashboard settings, including the global automation
// kill switch the engine checks on every event.
type SettingDao interface {
	SaveSetting(setting model.Setting) error

	GetSetting(key string) (*model.Setting, error)
}
