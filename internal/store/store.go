package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"smartmap-backend/internal/metrics"
	"smartmap-backend/internal/model"
)

var (
	ErrDuplicateID = errors.New("duplicate facility id")
	ErrEmptyID     = errors.New("facility id is empty")
)

// Store is the authoritative record sequence. It is loaded once from a Slot and
// written back to it on every committed change.
type Store struct {
	slot Slot
	key  string
	log  *zap.Logger

	commitMu sync.Mutex // serializes ReplaceAll

	mu        sync.RWMutex
	records   []model.Facility
	listeners []func([]model.Facility)
}

// New creates an empty store persisting under key.
func New(slot Slot, key string, log *zap.Logger) *Store {
	return &Store{
		slot:    slot,
		key:     key,
		log:     log,
		records: []model.Facility{},
	}
}

// Load reads the persisted sequence. A missing, unreadable or malformed slot
// leaves the store empty; the problem is only logged.
func (s *Store) Load(ctx context.Context) {
	recs, err := s.read(ctx)
	if err != nil {
		s.log.Warn("could not read persisted records, starting empty", zap.Error(err))
		recs = []model.Facility{}
	}

	s.mu.Lock()
	s.records = recs
	s.mu.Unlock()
	metrics.SetStoreRecords(len(recs))

	s.log.Info("record store loaded", zap.String("key", s.key), zap.Int("records", len(recs)))
}

// Refresh re-reads the slot and adopts its contents when they differ from memory,
// notifying listeners. It picks up commits made by another process sharing the
// slot. On a read failure the current contents are kept.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	recs, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if equalFacilities(s.records, recs) {
		s.mu.Unlock()
		return false, nil
	}
	s.records = recs
	listeners := append([]func([]model.Facility){}, s.listeners...)
	s.mu.Unlock()
	metrics.SetStoreRecords(len(recs))

	s.log.Info("record store refreshed from slot", zap.Int("records", len(recs)))
	for _, fn := range listeners {
		fn(model.CloneFacilities(recs))
	}
	return true, nil
}

func (s *Store) read(ctx context.Context) ([]model.Facility, error) {
	data, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, ErrSlotEmpty) {
		return []model.Facility{}, nil
	}
	if err != nil {
		return nil, err
	}

	var recs []model.Facility
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("persisted records are malformed: %w", err)
	}

	seen := make(map[string]bool, len(recs))
	out := make([]model.Facility, 0, len(recs))
	for _, r := range recs {
		if r.ID == "" || seen[r.ID] {
			s.log.Warn("dropping persisted record with empty or repeated id", zap.String("id", r.ID))
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

func equalFacilities(a, b []model.Facility) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// All returns a copy of the current sequence in store order.
func (s *Store) All() []model.Facility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneFacilities(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (model.Facility, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.Facility{}, false
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// OnChange registers fn to be called with the new sequence after every commit.
func (s *Store) OnChange(fn func([]model.Facility)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ReplaceAll commits recs as the whole new sequence. The slot is written first;
// on failure the store keeps its previous contents.
func (s *Store) ReplaceAll(ctx context.Context, recs []model.Facility) error {
	if err := checkIDs(recs); err != nil {
		return err
	}
	next := model.CloneFacilities(recs)

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		metrics.ObserveStoreCommit(err, 0)
		return err
	}
	metrics.ObserveStoreCommit(nil, len(next))

	s.mu.Lock()
	s.records = next
	listeners := append([]func([]model.Facility){}, s.listeners...)
	s.mu.Unlock()

	s.log.Info("record store committed", zap.Int("records", len(next)))
	for _, fn := range listeners {
		fn(model.CloneFacilities(next))
	}
	return nil
}

func checkIDs(recs []model.Facility) error {
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		if r.ID == "" {
			return ErrEmptyID
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
