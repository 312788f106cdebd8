package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env       string        `yaml:"env" env:"ENV" env-default:"local"`
	SentryDSN string        `yaml:"sentry_dsn" env:"SENTRY_DSN"`
	Server    HTTPServer    `yaml:"server" env-prefix:"SERVER_"`
	Storage   StorageConfig `yaml:"storage" env-prefix:"DB_"`
	Roster    RosterConfig  `yaml:"roster" env-prefix:"ROSTER_"`
	Journal   JournalConfig `yaml:"journal" env-prefix:"JOURNAL_"`
	Meals     MealsConfig   `yaml:"meals" env-prefix:"MEALS_"`
	Archive   ArchiveConfig `yaml:"archive" env-prefix:"ARCHIVE_"`
}

type HTTPServer struct {
	Port        string        `yaml:"port" env:"PORT" env-default:"8080"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"60s"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"DRIVER" env-default:"sqlite"`
	// DSN overrides every other field when set.
	DSN      string `yaml:"dsn" env:"DSN"`
	Path     string `yaml:"path" env:"PATH" env-default:"./data/checkin.db"`
	Host     string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PORT" env-default:"5432"`
	User     string `yaml:"user" env:"USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PASSWORD" env-default:"postgres"`
	DbName   string `yaml:"dbname" env:"DBNAME" env-default:"checkin_db"`
	SslMode  string `yaml:"sslmode" env:"SSLMODE" env-default:"disable"`
}

type RosterConfig struct {
	// SheetURL is the published CSV export of the roster spreadsheet.
	// Empty enables demo mode.
	SheetURL string        `yaml:"sheet_url" env:"SHEET_URL"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"15s"`
}

type JournalConfig struct {
	// ScriptURL is the remote append-only log endpoint. Empty disables sync.
	ScriptURL      string        `yaml:"script_url" env:"SCRIPT_URL"`
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"15s"`
	MaxRetryWindow time.Duration `yaml:"max_retry_window" env:"MAX_RETRY_WINDOW" env-default:"1m"`
}

type MealsConfig struct {
	TimeZone       string `yaml:"time_zone" env:"TIME_ZONE" env-default:"America/Santiago"`
	BreakfastStart string `yaml:"breakfast_start" env:"BREAKFAST_START" env-default:"08:00:00"`
	BreakfastEnd   string `yaml:"breakfast_end" env:"BREAKFAST_END" env-default:"10:00:00"`
	LunchStart     string `yaml:"lunch_start" env:"LUNCH_START" env-default:"11:00:00"`
	LunchEnd       string `yaml:"lunch_end" env:"LUNCH_END" env-default:"23:50:00"`
}

type ArchiveConfig struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
}

func (c ArchiveConfig) Enabled() bool {
	return c.Bucket != ""
}

// DriverName returns the database/sql driver registered for the configured storage.
func (c StorageConfig) DriverName() string {
	if c.Driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

func (c StorageConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}

	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DbName, c.SslMode)
	}

	return "file:" + filepath.ToSlash(c.Path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Load reads an optional .env file, then CONFIG_PATH (yaml) if set, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	if cfg.Storage.Driver != DriverSQLite && cfg.Storage.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if _, err := time.LoadLocation(cfg.Meals.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", cfg.Meals.TimeZone, err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err.Error())
	}

	return cfg
}
