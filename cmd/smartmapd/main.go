package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartmap-backend/config"
	"smartmap-backend/internal/db"
	"smartmap-backend/internal/logging"
	"smartmap-backend/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "smartmapd",
	Short:         "Smart map facility directory backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "./config/config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the YAML configuration file")

	rootCmd.AddCommand(serveCmd, importCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	log.Info("configuration loaded", zap.String("path", configPath), zap.String("storage", cfg.Storage.Driver))
	return cfg, log, nil
}

// openStore connects the configured slot backend and returns an unloaded store
// with a function releasing the connection.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.Store, func(), error) {
	var (
		slot    store.Slot
		closeFn func()
	)

	switch cfg.Storage.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis is not reachable yet", zap.String("addr", cfg.Storage.Redis.Addr), zap.Error(err))
		}
		slot = store.NewRedisSlot(client)
		closeFn = func() { _ = client.Close() }
	default:
		gormDB, err := db.Init(cfg.Storage.Driver, &cfg.Storage.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		slot = store.NewGormSlot(gormDB)
		closeFn = func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	return store.New(slot, cfg.Storage.Key, log), closeFn, nil
}
