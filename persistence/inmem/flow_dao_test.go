package inmem

import (
	"testing"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/stretchr/testify/require"
)

func testFlow(id string, enabled bool) model.Flow {
	return model.Flow{
		Id:      id,
		Name:    "flow " + id,
		Enabled: enabled,
		Trigger: "tiktok:gift",
		Actions: []model.ActionSpec{{Type: "log"}},
	}
}

func TestFlowDao(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, dao *inMemFlowDao){
		"save and get":       testSaveGet,
		"get missing":        testGetMissing,
		"delete":             testDelete,
		"list sorted":        testListSorted,
		"enabled flows only": testEnabledOnly,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewInMemFlowDao())
		})
	}
}

func testSaveGet(t *testing.T, dao *inMemFlowDao) {
	require.NoError(t, dao.SaveFlow(testFlow("a", true)))
	flow, err := dao.GetFlow("a")
	require.NoError(t, err)
	require.Equal(t, "flow a", flow.Name)

	// returned value is a copy
	flow.Name = "mutated"
	again, err := dao.GetFlow("a")
	require.NoError(t, err)
	require.Equal(t, "flow a", again.Name)
}

func testGetMissing(t *testing.T, dao *inMemFlowDao) {
	_, err := dao.GetFlow("nope")
	require.Error(t, err)
	_, ok := err.(persistence.NotFoundError)
	require.True(t, ok)
}

func testDelete(t *testing.T, dao *inMemFlowDao) {
	require.NoError(t, dao.SaveFlow(testFlow("a", true)))
	require.NoError(t, dao.DeleteFlow("a"))
	_, err := dao.GetFlow("a")
	require.Error(t, err)
}

func testListSorted(t *testing.T, dao *inMemFlowDao) {
	require.NoError(t, dao.SaveFlow(testFlow("b", true)))
	require.NoError(t, dao.SaveFlow(testFlow("a", false)))
	flows, err := dao.GetFlows()
	require.NoError(t, err)
	require.Len(t, flows, 2)
	require.Equal(t, "a", flows[0].Id)
	require.Equal(t, "b", flows[1].Id)
}

func testEnabledOnly(t *testing.T, dao *inMemFlowDao) {
	require.NoError(t, dao.SaveFlow(testFlow("a", false)))
	require.NoError(t, dao.SaveFlow(testFlow("b", true)))
	flows, err := dao.GetEnabledFlows()
	require.NoError(t, err)
	require.Len(t, flows, 1)
	require.Equal(t, "b", flows[0].Id)
}

func TestSettingDao(t *testing.T) {
	dao := NewInMemSettingDao()

	_, err := dao.GetSetting("automationEnabled")
	require.Error(t, err)
	_, ok := err.(persistence.NotFoundError)
	require.True(t, ok)

	require.NoError(t, dao.SaveSetting(model.Setting{Key: "automationEnabled", Value: false}))
	setting, err := dao.GetSetting("automationEnabled")
	require.NoError(t, err)
	require.Equal(t, false, setting.Value)
}
