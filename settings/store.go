package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("settings: key not found")

// Store is a durable key-value store. Put overwrites; the last write wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Backends lists every backend Open understands.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendPostgres}

// Open connects to the named backend. dsn is a directory for file, a database
// path for sqlite and a URL for redis and postgres; memory ignores it.
func Open(ctx context.Context, backend, dsn string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil

	case BackendFile:
		return NewFileStore(dsn)

	case BackendSQLite:
		return NewSQLiteStore(dsn)

	case BackendRedis:
		opt, err := redis.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisStore(rdb), nil

	case BackendPostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		st := NewPostgresStore(pool)
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown settings backend %q", backend)
}

// Load reads and decodes the record under key.
func Load(ctx context.Context, st Store, key string) (Settings, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return Settings{}, err
	}
	return Decode(data)
}

// Save encodes s and overwrites the record under key.
func Save(ctx context.Context, st Store, key string, s Settings) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := st.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
