package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmap-backend/internal/catalog"
)

func toList(t *testing.T) *Machine {
	t.Helper()
	m := New()
	require.NoError(t, m.Start())
	require.NoError(t, m.ChooseFacilityMap())
	require.NoError(t, m.SelectDistrict(catalog.Gangnam))
	require.NoError(t, m.SelectCategory(catalog.ChargingStation))
	return m
}

func TestMachine_InitialState(t *testing.T) {
	m := New()
	assert.Equal(t, StateLanding, m.State())
	_, _, ok := m.Selection()
	assert.False(t, ok)
	assert.Empty(t, m.Title())
}

func TestMachine_WizardForward(t *testing.T) {
	m := toList(t)
	assert.Equal(t, StateList, m.State())

	d, c, ok := m.Selection()
	assert.True(t, ok)
	assert.Equal(t, catalog.Gangnam, d)
	assert.Equal(t, catalog.ChargingStation, c)
	assert.Equal(t, "강남구 전동휠체어 충전소", m.Title())
}

func TestMachine_BackKeepsSelections(t *testing.T) {
	m := toList(t)

	require.NoError(t, m.Back())
	assert.Equal(t, StateService, m.State())
	assert.Equal(t, catalog.Gangnam, m.Snapshot().District)

	require.NoError(t, m.Back())
	assert.Equal(t, StateDistrict, m.State())

	require.NoError(t, m.Back())
	assert.Equal(t, StateBranchSelect, m.State())

	snap := m.Snapshot()
	assert.Equal(t, catalog.Gangnam, snap.District)
	assert.Equal(t, catalog.ChargingStation, snap.Category)

	assert.ErrorIs(t, m.Back(), ErrInvalidTransition)
}

func TestMachine_WaitingBranch(t *testing.T) {
	m := New()
	require.NoError(t, m.Start())
	require.NoError(t, m.ChooseLiveQueue())
	assert.Equal(t, StateWaiting, m.State())

	_, _, ok := m.Selection()
	assert.False(t, ok, "waiting lookup needs no district or service")

	require.NoError(t, m.Back())
	assert.Equal(t, StateBranchSelect, m.State())
}

func TestMachine_InvalidTransitionsLeaveStateUntouched(t *testing.T) {
	m := New()
	assert.ErrorIs(t, m.ChooseFacilityMap(), ErrInvalidTransition)
	assert.ErrorIs(t, m.SelectDistrict(catalog.Gangnam), ErrInvalidTransition)
	assert.ErrorIs(t, m.SelectCategory(catalog.RepairVendor), ErrInvalidTransition)
	assert.Equal(t, StateLanding, m.State())

	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Start(), ErrInvalidTransition)
	assert.Equal(t, StateBranchSelect, m.State())

	require.NoError(t, m.ChooseFacilityMap())
	assert.ErrorIs(t, m.SelectDistrict("마포구"), catalog.ErrUnknownDistrict)
	assert.Equal(t, StateDistrict, m.State())
}

func TestMachine_TopNavFromAnyState(t *testing.T) {
	m := toList(t)

	require.NoError(t, m.GoTab(TabAdmin))
	assert.Equal(t, StateAdmin, m.State())

	require.NoError(t, m.GoTab(TabLanding))
	assert.Equal(t, StateLanding, m.State())

	require.NoError(t, m.GoTab(TabExplorer))
	assert.Equal(t, StateList, m.State(), "explorer resumes the remembered step")

	assert.ErrorIs(t, m.GoTab("settings"), ErrInvalidTransition)
}

func TestMachine_StaleSelectionsUntilReset(t *testing.T) {
	m := toList(t)
	require.NoError(t, m.GoTab(TabLanding))
	require.NoError(t, m.Start())
	require.NoError(t, m.ChooseFacilityMap())

	assert.Equal(t, catalog.Gangnam, m.Snapshot().District)
	m.Reset()
	snap := m.Snapshot()
	assert.Empty(t, snap.District)
	assert.Empty(t, snap.Category)
	assert.Empty(t, snap.Title)
}

func TestMachine_ResetRewindsToDistrict(t *testing.T) {
	m := toList(t)
	m.Reset()
	assert.Equal(t, StateDistrict, m.State())
	_, _, ok := m.Selection()
	assert.False(t, ok)

	// From another tab only the remembered step changes.
	m = toList(t)
	require.NoError(t, m.GoTab(TabAdmin))
	m.Reset()
	assert.Equal(t, StateAdmin, m.State())
	assert.Equal(t, StepDistrict, m.Snapshot().Step)
}

func TestMachine_ScrollEpochAndHook(t *testing.T) {
	m := New()
	var transitions [][2]State
	m.OnChange(func(from, to Snapshot) {
		transitions = append(transitions, [2]State{from.State, to.State})
	})

	require.NoError(t, m.Start())
	require.NoError(t, m.ChooseLiveQueue())
	require.NoError(t, m.GoTab(TabAdmin))
	require.NoError(t, m.GoTab(TabAdmin)) // no change

	assert.Equal(t, uint64(3), m.Snapshot().ScrollEpoch)
	assert.Equal(t, [][2]State{
		{StateLanding, StateBranchSelect},
		{StateBranchSelect, StateWaiting},
		{StateWaiting, StateAdmin},
	}, transitions)
}

func TestMachine_Apply(t *testing.T) {
	m := New()
	steps := []Action{
		{Kind: "start"},
		{Kind: "facility_map"},
		{Kind: "select_district", District: " 송파구 "},
		{Kind: "select_category", Category: "wheelchair-rental"},
	}
	for _, a := range steps {
		require.NoError(t, m.Apply(a), a.Kind)
	}
	assert.Equal(t, "송파구 휠체어 대여소", m.Title())

	assert.ErrorIs(t, m.Apply(Action{Kind: "fly"}), ErrInvalidTransition)
	assert.ErrorIs(t, m.Apply(Action{Kind: "select_category", Category: "??"}), catalog.ErrUnknownCategory)

	require.NoError(t, m.Apply(Action{Kind: "tab", Tab: "admin"}))
	assert.Equal(t, StateAdmin, m.State())
	require.NoError(t, m.Apply(Action{Kind: "reset"}))
	assert.Empty(t, m.Title())
}
