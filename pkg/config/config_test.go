package config

import (
	"testing"
	"time"

	"github.com/anonto42/quillpost/backend/internal/models"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_COUNT_TTL", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "file::memory:" || cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Redis.CountTTL != 90*time.Second || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.Port != "8080" || cfg.Database.MaxOpenConns != 25 || cfg.Log.ServiceName != "quillpost" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing DB_DSN to fail")
	}

	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail")
	}
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDatabase(DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestMigrateSQLite(t *testing.T) {
	db, err := OpenDatabase(DatabaseConfig{Driver: "sqlite", DSN: "file:config_migrate?mode=memory&cache=shared", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	for _, table := range []string{"users", "follows", "posts"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
	if !db.Migrator().HasIndex(&models.Follow{}, "idx_follows_followed_author") {
		t.Fatal("expected unique follow index")
	}
	if !db.Migrator().HasIndex(&models.Follow{}, "idx_follows_author_id") {
		t.Fatal("expected index for following lookups")
	}
	if db.Migrator().HasIndex(&models.Follow{}, "idx_follows_followed_id") {
		t.Fatal("followed_id is covered by the unique index and needs no index of its own")
	}
}
