package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ideagraph.backend/internal/config"
	"ideagraph.backend/internal/infrastructure/datasources/postgres"
)

func withHooks(t *testing.T) {
	t.Helper()
	origDotenv, origCfg, origLog := loadDotenv, loadCfg, initLog
	origOpen, origMigrations, origRun := openDB, migrations, runMigrations
	t.Cleanup(func() {
		loadDotenv, loadCfg, initLog = origDotenv, origCfg, origLog
		openDB, migrations, runMigrations = origOpen, origMigrations, origRun
	})

	loadDotenv = func(...string) error { return errors.New("missing") }
	loadCfg = func() *config.Config {
		return &config.Config{Server: config.ServerConfig{Env: "test"}, Database: config.DatabaseConfig{DBName: "ideagraph"}}
	}
	initLog = func(string) {}
	openDB = func(config.DatabaseConfig) (*sql.DB, error) {
		dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
		gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return gdb.DB()
	}
	migrations = func() fs.FS {
		return fstest.MapFS{"0001_notes.sql": {Data: []byte("CREATE TABLE notes (id TEXT PRIMARY KEY);")}}
	}
}

func TestRun_AppliesMigrations(t *testing.T) {
	withHooks(t)
	var applied []string
	runMigrations = func(ctx context.Context, db *sql.DB, fsys fs.FS) ([]string, error) {
		ran, err := postgres.Migrate(ctx, db, fsys)
		applied = ran
		return ran, err
	}

	require.NoError(t, run(context.Background()))
	assert.Equal(t, []string{"0001_notes"}, applied)
}

func TestRun_OpenError(t *testing.T) {
	withHooks(t)
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return nil, errors.New("refused") }

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestRun_MigrationError(t *testing.T) {
	withHooks(t)
	runMigrations = func(context.Context, *sql.DB, fs.FS) ([]string, error) {
		return []string{"0001_notes"}, errors.New("syntax error")
	}

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate: syntax error")
}

func TestRun_UpToDate(t *testing.T) {
	withHooks(t)
	runMigrations = func(context.Context, *sql.DB, fs.FS) ([]string, error) { return nil, nil }
	require.NoError(t, run(context.Background()))
}
