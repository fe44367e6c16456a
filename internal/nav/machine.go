// Package nav implements the top-level tab and explorer wizard navigation.
package nav

import (
	"errors"
	"fmt"

	"smartmap-backend/internal/catalog"
)

// ErrInvalidTransition is returned when an action is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid navigation transition")

// Tab is the active top-level view.
type Tab string

const (
	TabLanding  Tab = "landing"
	TabExplorer Tab = "explorer"
	TabAdmin    Tab = "admin"
)

// Step is the active explorer step. It is remembered while another tab is shown.
type Step string

const (
	StepBranch   Step = "branch-select"
	StepDistrict Step = "district-select"
	StepService  Step = "service-select"
	StepList     Step = "result-list"
	StepWaiting  Step = "waiting-lookup"
)

// State is the flattened machine state.
type State string

const (
	StateLanding      State = "Landing"
	StateBranchSelect State = "Explorer.BranchSelect"
	StateDistrict     State = "Explorer.District"
	StateService      State = "Explorer.Service"
	StateList         State = "Explorer.List"
	StateWaiting      State = "Explorer.Waiting"
	StateAdmin        State = "Admin"
)

var stepStates = map[Step]State{
	StepBranch:   StateBranchSelect,
	StepDistrict: StateDistrict,
	StepService:  StateService,
	StepList:     StateList,
	StepWaiting:  StateWaiting,
}

// Snapshot is a read-only view of the machine.
type Snapshot struct {
	State       State            `json:"state"`
	Tab         Tab              `json:"tab"`
	Step        Step             `json:"step"`
	District    catalog.District `json:"district,omitempty"`
	Category    catalog.Category `json:"category,omitempty"`
	Title       string           `json:"title,omitempty"`
	ScrollEpoch uint64           `json:"scrollEpoch"`
}

// Machine tracks one session's navigation. It is not safe for concurrent use;
// callers serialize access per session.
type Machine struct {
	tab      Tab
	step     Step
	district catalog.District // "" until chosen
	category catalog.Category // "" until chosen

	scrollEpoch uint64
	onChange    func(from, to Snapshot)
}

// New returns a machine in the Landing state.
func New() *Machine {
	return &Machine{tab: TabLanding, step: StepBranch}
}

// OnChange sets a hook called after every tab or step change.
func (m *Machine) OnChange(fn func(from, to Snapshot)) {
	m.onChange = fn
}

// State returns the flattened state.
func (m *Machine) State() State {
	switch m.tab {
	case TabLanding:
		return StateLanding
	case TabAdmin:
		return StateAdmin
	}
	return stepStates[m.step]
}

// Snapshot returns the current view.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:       m.State(),
		Tab:         m.tab,
		Step:        m.step,
		District:    m.district,
		Category:    m.category,
		Title:       m.Title(),
		ScrollEpoch: m.scrollEpoch,
	}
}

// Title is "<district> <category>" once both are chosen.
func (m *Machine) Title() string {
	if m.district == "" || m.category == "" {
		return ""
	}
	return catalog.ServiceLabel(m.district, m.category)
}

// Selection returns the chosen district and category; ok is false until both are set.
func (m *Machine) Selection() (catalog.District, catalog.Category, bool) {
	return m.district, m.category, m.district != "" && m.category != ""
}

// Start leaves the landing screen for the explorer branch selector.
func (m *Machine) Start() error {
	if m.State() != StateLanding {
		return m.invalid("start")
	}
	m.move(TabExplorer, StepBranch)
	return nil
}

// ChooseFacilityMap enters the district step of the wizard.
func (m *Machine) ChooseFacilityMap() error {
	if m.State() != StateBranchSelect {
		return m.invalid("choose facility map")
	}
	m.move(TabExplorer, StepDistrict)
	return nil
}

// ChooseLiveQueue enters the waiting-list lookup.
func (m *Machine) ChooseLiveQueue() error {
	if m.State() != StateBranchSelect {
		return m.invalid("choose live queue")
	}
	m.move(TabExplorer, StepWaiting)
	return nil
}

// SelectDistrict records d and advances to the service step.
func (m *Machine) SelectDistrict(d catalog.District) error {
	if m.State() != StateDistrict {
		return m.invalid("select district")
	}
	if d != catalog.AllDistricts && !d.Valid() {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownDistrict, d)
	}
	m.district = d
	m.move(TabExplorer, StepService)
	return nil
}

// SelectCategory records c and advances to the result list.
func (m *Machine) SelectCategory(c catalog.Category) error {
	if m.State() != StateService || m.district == "" {
		return m.invalid("select category")
	}
	if c != catalog.AllCategories && !c.Valid() {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, c)
	}
	m.category = c
	m.move(TabExplorer, StepList)
	return nil
}

// Back steps the wizard backwards. Selections are kept until overwritten.
func (m *Machine) Back() error {
	switch m.State() {
	case StateList:
		m.move(TabExplorer, StepService)
	case StateService:
		m.move(TabExplorer, StepDistrict)
	case StateDistrict, StateWaiting:
		m.move(TabExplorer, StepBranch)
	default:
		return m.invalid("back")
	}
	return nil
}

// GoTab switches the top-level view from any state. The explorer step is kept, so
// returning to the explorer resumes where the user left it.
func (m *Machine) GoTab(t Tab) error {
	switch t {
	case TabLanding, TabExplorer, TabAdmin:
	default:
		return fmt.Errorf("%w: unknown tab %q", ErrInvalidTransition, t)
	}
	m.move(t, m.step)
	return nil
}

// Reset clears the remembered district and category. A wizard past the district
// step is rewound to it, since the later steps need a selection.
func (m *Machine) Reset() {
	m.district = ""
	m.category = ""
	if m.step == StepService || m.step == StepList {
		m.move(m.tab, StepDistrict)
	}
}

func (m *Machine) move(t Tab, s Step) {
	if t == m.tab && s == m.step {
		return
	}
	from := m.Snapshot()
	m.tab, m.step = t, s
	m.scrollEpoch++
	if m.onChange != nil {
		m.onChange(from, m.Snapshot())
	}
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, m.State())
}
