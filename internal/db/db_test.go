package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartmap-backend/config"
	"smartmap-backend/internal/model"
)

func TestInit_SQLiteMigratesSlotTable(t *testing.T) {
	gormDB, err := Init("sqlite", &config.DatabaseConfig{DSN: "file::memory:", MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	assert.True(t, gormDB.Migrator().HasTable(&model.Slot{}))
}

func TestInit_UnknownDriver(t *testing.T) {
	_, err := Init("mysql", &config.DatabaseConfig{}, zap.NewNop())
	assert.Error(t, err)
}
