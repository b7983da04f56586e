package inmem

import (
	"sort"
	"sync"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
)

var _ persistence.FlowDao = new(inMemFlowDao)

// inMemFlowDao backs local runs and tests; nothing survives a restart.
type inMemFlowDao struct {
	mu    sync.RWMutex
	flows map[string]model.Flow
}

func NewInMemFlowDao() *inMemFlowDao {
	return &inMemFlowDao{
		flows: make(map[string]model.Flow),
	}
}

func (im *inMemFlowDao) SaveFlow(flow model.Flow) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.flows[flow.Id] = flow
	return nil
}

func (im *inMemFlowDao) DeleteFlow(id string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.flows, id)
	return nil
}

func (im *inMemFlowDao) GetFlow(id string) (*model.Flow, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	flow, ok := im.flows[id]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "flow", Key: id}
	}
	return &flow, nil
}

func (im *inMemFlowDao) GetFlows() ([]model.Flow, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	flows := make([]model.Flow, 0, len(im.flows))
	for _, flow := range im.flows {
		flows = append(flows, flow)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Id < flows[j].Id })
	return flows, nil
}

func (im *inMemFlowDao) GetEnabledFlows() ([]model.Flow, error) {
	flows, err := im.GetFlows()
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
