package redis

import (
	"context"
	"sort"

	rd "github.com/go-redis/redis/v9"

	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/util"
	"go.uber.org/zap"
)

const FLOW_DEF string = "FLOW"

var _ persistence.FlowDao = new(redisFlowDao)

// redisFlowDao keeps every flow definition as a field of one namespaced
// hash, keyed by flow id.
type redisFlowDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Flow]
}

func NewRedisFlowDao(conf Config) *redisFlowDao {
	return &redisFlowDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Flow](),
	}
}

func (rf *redisFlowDao) SaveFlow(flow model.Flow) error {
	data, err := rf.encoderDecoder.Encode(flow)
	if err != nil {
		return err
	}
	key := rf.baseDao.getNamespaceKey(FLOW_DEF)
	ctx := context.Background()
	if err := rf.baseDao.redisClient.HSet(ctx, key, []string{flow.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving flow", zap.String("flowId", flow.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rf *redisFlowDao) DeleteFlow(id string) error {
	key := rf.baseDao.getNamespaceKey(FLOW_DEF)
	ctx := context.Background()
	if err := rf.baseDao.redisClient.HDel(ctx, key, id).Err(); err != nil {
		logger.Error("error in deleting flow", zap.String("flowId", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rf *redisFlowDao) GetFlow(id string) (*model.Flow, error) {
	key := rf.baseDao.getNamespaceKey(FLOW_DEF)
	ctx := context.Background()
	flowStr, err := rf.baseDao.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		if err == rd.Nil {
			return nil, persistence.NotFoundError{Kind: "flow", Key: id}
		}
		logger.Error("error in getting flow", zap.String("flowId", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rf.encoderDecoder.Decode([]byte(flowStr))
}

func (rf *redisFlowDao) GetFlows() ([]model.Flow, error) {
	key := rf.baseDao.getNamespaceKey(FLOW_DEF)
	ctx := context.Background()
	entries, err := rf.baseDao.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Error("error in listing flows", zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	flows := make([]model.Flow, 0, len(entries))
	for id, flowStr := range entries {
		flow, err := rf.encoderDecoder.Decode([]byte(flowStr))
		if err != nil {
			logger.Error("skipping undecodable flow", zap.String("flowId", id), zap.Error(err))
			continue
		}
		flows = append(flows, *flow)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Id < flows[j].Id })
	return flows, nil
}

func (rf *redisFlowDao) GetEnabledFlows() ([]model.Flow, error) {
	flows, err := rf.GetFlows()
	if err != nil {
		return nil, err
	}
	enabled := make([]model.Flow, 0, len(flows))
	for _, flow := range flows {
		if flow.Enabled {
			enabled = append(enabled, flow)
		}
	}
	return enabled, nil
}
