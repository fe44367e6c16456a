package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartmap-backend/internal/model"
)

// ErrSlotEmpty is returned by Slot.Get when nothing was ever written under the key.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is the durable key-value collaborator the record sequence is mirrored to.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// gormSlot keeps slots in a SQL table.
type gormSlot struct {
	db *gorm.DB
}

// NewGormSlot creates a Slot backed by the slots table.
func NewGormSlot(db *gorm.DB) Slot {
	return &gormSlot{db: db}
}

func (s *gormSlot) Get(ctx context.Context, key string) ([]byte, error) {
	var row model.Slot
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return []byte(row.Value), nil
}

func (s *gormSlot) Set(ctx context.Context, key string, value []byte) error {
	row := model.Slot{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// redisSlot keeps slots as plain redis string keys.
type redisSlot struct {
	client *redis.Client
}

// NewRedisSlot creates a Slot backed by redis.
func NewRedisSlot(client *redis.Client) Slot {
	return &redisSlot{client: client}
}

func (s *redisSlot) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return data, nil
}

func (s *redisSlot) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// MemorySlot is a process-local Slot, used by tests and the CLI dry runs.
type MemorySlot struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySlot) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
