package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smartmap-backend/internal/catalog"
	"smartmap-backend/internal/model"
)

var (
	ErrRecordNotFound = errors.New("record not found in draft")
	ErrUnknownField   = errors.New("unknown record field")
)

// Committer receives the whole draft on save.
type Committer interface {
	All() []model.Facility
	ReplaceAll(ctx context.Context, recs []model.Facility) error
}

// Field names accepted by Edit.
const (
	FieldName        = "name"
	FieldAddress     = "address"
	FieldDistrict    = "district"
	FieldServiceType = "serviceType"
	FieldPhone       = "phone"
)

// Editor holds a draft copy of the directory. Nothing reaches the store until Save.
type Editor struct {
	store Committer
	now   func() time.Time
	draft []model.Facility
	dirty bool
}

// NewEditor opens a draft from the store's current sequence.
func NewEditor(store Committer, now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{store: store, now: now, draft: store.All()}
}

// Records returns a copy of the draft.
func (e *Editor) Records() []model.Facility {
	return model.CloneFacilities(e.draft)
}

// Dirty reports whether the draft has unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Add prepends a blank record with default district and category and returns it.
func (e *Editor) Add() model.Facility {
	now := e.now()
	rec := model.Facility{
		ID:          e.freshID(now),
		District:    string(catalog.DefaultDistrict),
		ServiceType: catalog.DefaultCategory.Label(),
		Date:        formatDate(now),
	}
	e.draft = append([]model.Facility{rec}, e.draft...)
	e.dirty = true
	return rec
}

// Edit sets one field of one draft record. District and service type are parsed
// through the catalog and stored in canonical form.
func (e *Editor) Edit(id, field, value string) (model.Facility, error) {
	i := e.indexOf(id)
	if i < 0 {
		return model.Facility{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	rec := e.draft[i]

	switch field {
	case FieldName:
		rec.Name = value
	case FieldAddress:
		rec.Address = value
	case FieldPhone:
		rec.Phone = value
	case FieldDistrict:
		d, err := catalog.ParseDistrict(value)
		if err != nil {
			return model.Facility{}, err
		}
		if !d.Valid() {
			return model.Facility{}, fmt.Errorf("%w: %q is not a storable district", catalog.ErrUnknownDistrict, value)
		}
		rec.District = string(d)
	case FieldServiceType:
		c, err := catalog.ParseCategory(value)
		if err != nil {
			return model.Facility{}, err
		}
		if !c.Valid() {
			return model.Facility{}, fmt.Errorf("%w: %q is not a storable category", catalog.ErrUnknownCategory, value)
		}
		rec.ServiceType = c.Label()
	default:
		return model.Facility{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	e.draft[i] = rec
	e.dirty = true
	return rec, nil
}

// Remove deletes a record from the draft.
func (e *Editor) Remove(id string) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	e.draft = append(e.draft[:i:i], e.draft[i+1:]...)
	e.dirty = true
	return nil
}

// Save replaces the committed sequence with the whole draft.
func (e *Editor) Save(ctx context.Context) error {
	if err := e.store.ReplaceAll(ctx, e.Records()); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// Discard throws the draft away and reopens it from the store.
func (e *Editor) Discard() {
	e.draft = e.store.All()
	e.dirty = false
}

func (e *Editor) indexOf(id string) int {
	for i, r := range e.draft {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// freshID derives an id from the clock, suffixing it when two rows are added
// within the same millisecond or the id is already taken.
func (e *Editor) freshID(now time.Time) string {
	base := "node-" + strconv.FormatInt(now.UnixMilli(), 10)
	id := base
	for n := 2; e.indexOf(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// formatDate renders a date the way the ko-KR locale prints it ("2026. 3. 7.").
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d.", t.Year(), int(t.Month()), t.Day())
}
