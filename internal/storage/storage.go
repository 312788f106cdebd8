package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"meal-checkin/internal/config"
)

type Storage struct {
	db *sqlx.DB
}

func New(cfg config.StorageConfig) (*Storage, error) {
	const op = "storage.New"

	if cfg.Driver == config.DriverSQLite && cfg.DSN == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("%s: failed to create data directory: %w", op, err)
		}
	}

	db, err := sqlx.Connect(cfg.DriverName(), cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open db: %w", op, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite serialises writers anyway, one connection avoids SQLITE_BUSY/LOCKED.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping db: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func MustNew(cfg config.StorageConfig) *Storage {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Storage) GetDB() *sqlx.DB {
	return s.db
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
