package model

// Facility is one row of the directory. The JSON shape matches the sequence the
// front-end persisted under its local-storage key, so exported data stays compatible.
type Facility struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	District    string `json:"district"`
	ServiceType string `json:"serviceType"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
}

// CloneFacilities returns a copy of recs that shares no backing array with it.
func CloneFacilities(recs []Facility) []Facility {
	out := make([]Facility, len(recs))
	copy(out, recs)
	return out
}
