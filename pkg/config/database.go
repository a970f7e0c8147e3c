package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anonto42/quillpost/backend/internal/models"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
)

const fullTextIndex = "idx_posts_fulltext"

// DB holds the process-wide connections. Open it once at startup and pass
// it down; close it at shutdown.
type DB struct {
	SQL   *gorm.DB
	Redis *redis.Client // nil when no Redis address is configured
}

// InitDB opens the relational store and, when configured, Redis.
func InitDB(cfg *Config) (*DB, error) {
	sqlDB, err := OpenDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Database.Driver, err)
	}

	db := &DB{SQL: sqlDB}
	if cfg.Redis.Addr == "" {
		pkglog.L().Info().Msg("no redis address configured, count cache disabled")
		return db, nil
	}

	client, err := initRedis(cfg.Redis)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	db.Redis = client
	return db, nil
}

// OpenDatabase opens and pings a gorm connection for the configured driver.
// Constraint violations are translated into gorm errors such as gorm.ErrDuplicatedKey.
func OpenDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         pkglog.GormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	pkglog.L().Info().Str("driver", cfg.Driver).Msg("connected to database")
	return db, nil
}

// Migrate creates or updates the users, follows and posts tables and the
// dialect's full-text index over post title and body.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Post{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	switch db.Dialector.Name() {
	case "mysql":
		if !db.Migrator().HasIndex(&models.Post{}, fullTextIndex) {
			if err := db.Exec("CREATE FULLTEXT INDEX " + fullTextIndex + " ON posts (title, body)").Error; err != nil {
				return fmt.Errorf("create full-text index: %w", err)
			}
		}
	case "postgres":
		err := db.Exec("CREATE INDEX IF NOT EXISTS " + fullTextIndex +
			" ON posts USING GIN (to_tsvector('english', title || ' ' || body))").Error
		if err != nil {
			return fmt.Errorf("create full-text index: %w", err)
		}
	}
	return nil
}

func initRedis(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	pkglog.L().Info().Str("addr", cfg.Addr).Msg("connected to redis")
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	l := pkglog.L()

	if db.SQL != nil {
		sqlDB, err := db.SQL.DB()
		if err != nil {
			l.Error().Err(err).Msg("error getting sql.DB from gorm")
		} else if err := sqlDB.Close(); err != nil {
			l.Error().Err(err).Msg("error closing database connection")
		} else {
			l.Info().Msg("database connection closed")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			l.Error().Err(err).Msg("error closing redis connection")
		} else {
			l.Info().Msg("redis connection closed")
		}
	}
}
