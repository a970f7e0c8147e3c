package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
)

type Config struct {
	Port      string
	Env       string
	JWTSecret string
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       pkglog.Config
}

// DatabaseConfig selects the gorm dialector and pool limits.
type DatabaseConfig struct {
	Driver          string // postgres, mysql, sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the count cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CountTTL time.Duration
}

// Load reads .env (if present), an optional config.yaml and the environment.
// Environment variables win; nested keys map to upper snake case (db.driver -> DB_DRIVER).
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Port:      v.GetString("port"),
		Env:       v.GetString("env"),
		JWTSecret: v.GetString("jwt.secret"),
		Database: DatabaseConfig{
			Driver:          v.GetString("db.driver"),
			DSN:             v.GetString("db.dsn"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CountTTL: v.GetDuration("redis.count_ttl"),
		},
		Log: pkglog.Config{
			Level:       v.GetString("log.level"),
			Pretty:      v.GetBool("log.pretty"),
			ServiceName: v.GetString("log.service_name"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DB_DSN environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.count_ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", pkglog.DefaultServiceName)
}
