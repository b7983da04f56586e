package redis

import (
	"context"
	"time"

	rd "github.com/go-redis/redis/v9"
	c "github.com/patrickmn/go-cache"

	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/util"
	"go.uber.org/zap"
)

const SETTING_DEF string = "SETTING"

var _ persistence.SettingDao = new(redisSettingDao)

// redisSettingDao caches reads for a short window: the engine checks the
// automation kill switch on every event and must not pay a round trip each
// time. Writes through this dao update the cache immediately; writes from
// other processes become visible when the TTL expires.
type redisSettingDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Setting]
	cache          *c.Cache
}

func NewRedisSettingDao(conf Config) *redisSettingDao {
	return &redisSettingDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Setting](),
		cache:          c.New(30*time.Second, 10*time.Minute),
	}
}

func (rs *redisSettingDao) SaveSetting(setting model.Setting) error {
	data, err := rs.encoderDecoder.Encode(setting)
	if err != nil {
		return err
	}
	key := rs.baseDao.getNamespaceKey(SETTING_DEF)
	ctx := context.Background()
	if err := rs.baseDao.redisClient.HSet(ctx, key, []string{setting.Key, string(data)}).Err(); err != nil {
		logger.Error("error in saving setting", zap.String("setting", setting.Key), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	rs.cache.Set(setting.Key, &setting, c.DefaultExpiration)
	return nil
}

func (rs *redisSettingDao) GetSetting(key string) (*model.Setting, error) {
	if cached, found := rs.cache.Get(key); found {
		return cached.(*model.Setting), nil
	}
	hkey := rs.baseDao.getNamespaceKey(SETTING_DEF)
	ctx := context.Background()
	settingStr, err := rs.baseDao.redisClient.HGet(ctx, hkey, key).Result()
	if err != nil {
		if err == rd.Nil {
			return nil, persistence.NotFoundError{Kind: "setting", Key: key}
		}
		logger.Error("error in getting setting", zap.String("setting", key), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	setting, err := rs.encoderDecoder.Decode([]byte(settingStr))
	if err != nil {
		return nil, err
	}
	rs.cache.Set(key, setting, c.DefaultExpiration)
	return setting, nil
}
