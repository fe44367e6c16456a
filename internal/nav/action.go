package nav

import (
	"fmt"

	"smartmap-backend/internal/catalog"
)

// Action is a user navigation event as received from a client.
type Action struct {
	Kind     string `json:"action" binding:"required"`
	District string `json:"district"`
	Category string `json:"category"`
	Tab      string `json:"tab"`
}

// Apply dispatches a to the machine. District and category text is parsed through
// the catalog, so labels and codes are both accepted.
func (m *Machine) Apply(a Action) error {
	switch a.Kind {
	case "start":
		return m.Start()
	case "facility_map":
		return m.ChooseFacilityMap()
	case "live_queue":
		return m.ChooseLiveQueue()
	case "select_district":
		d, err := catalog.ParseDistrict(a.District)
		if err != nil {
			return err
		}
		return m.SelectDistrict(d)
	case "select_category":
		c, err := catalog.ParseCategory(a.Category)
		if err != nil {
			return err
		}
		return m.SelectCategory(c)
	case "back":
		return m.Back()
	case "tab":
		return m.GoTab(Tab(a.Tab))
	case "reset":
		m.Reset()
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, a.Kind)
}
