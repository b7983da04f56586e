package inmem

import (
	"sync"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
)

var _ persistence.SettingDao = new(inMemSettingDao)

type inMemSettingDao struct {
	mu       sync.RWMutex
	settings map[string]model.Setting
}

func NewInMemSettingDao() *inMemSettingDao {
	return &inMemSettingDao{
		settings: make(map[string]model.Setting),
	}
}

func (im *inMemSettingDao) SaveSetting(setting model.Setting) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.settings[setting.Key] = setting
	return nil
}

func (im *inMemSettingDao) GetSetting(key string) (*model.Setting, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	setting, ok := im.settings[key]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "setting", Key: key}
	}
	return &setting, nil
}
