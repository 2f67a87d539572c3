package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/solvesync/internal/config"
	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/internal/repository"
)

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// ConnectSQLite opens the local database file, creating its directory when needed.
func ConnectSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return db, nil
}

// ConnectRedis configures a Redis client using the supplied URL.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}

// Migrate creates the key/value table used by the SQL backends.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to migrate kv entries: %w", err)
	}
	return nil
}

// Store is the opened key/value backend selected by configuration.
type Store struct {
	KV     repository.KVStore
	Driver string
	close  func() error
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the backend named by cfg.Storage.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return &Store{KV: repository.NewRedisKVStore(client, cfg.RedisPrefix), Driver: cfg.Storage, close: client.Close}, nil
	case config.StoragePostgres, config.StorageSQLite:
		var (
			db  *gorm.DB
			err error
		)
		if cfg.Storage == config.StoragePostgres {
			db, err = ConnectPostgres(cfg.DatabaseURL)
		} else {
			db, err = ConnectSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql handle: %w", err)
		}
		return &Store{KV: repository.NewGormKVStore(db), Driver: cfg.Storage, close: sqlDB.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage)
	}
}
