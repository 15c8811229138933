package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "assetdesk"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Password PasswordConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Alerts   AlertsConfig
	QRExport QRExportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ASSETDESK_APP_ENV" default:"development"`
	Port         string `envconfig:"ASSETDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ASSETDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ASSETDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver      string `envconfig:"ASSETDESK_DB_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"ASSETDESK_DB_DSN" default:"file:assetdesk.db"`
	AutoMigrate bool   `envconfig:"ASSETDESK_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"ASSETDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ASSETDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ASSETDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ASSETDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("ASSETDESK_DB_DSN is required")
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ASSETDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ASSETDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ASSETDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ASSETDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ASSETDESK_ARGON_KEY_LEN" default:"32"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ASSETDESK_JWT_SECRET" default:"local-admin-gate"`
	Issuer            string `envconfig:"ASSETDESK_JWT_ISSUER" default:"assetdesk"`
	ExpirationMinutes int    `envconfig:"ASSETDESK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the admin token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// OpenAIConfig holds the optional summary collaborator credential. A
// missing key is a normal condition, not a startup failure.
type OpenAIConfig struct {
	APIKey  string `envconfig:"ASSETDESK_OPENAI_API_KEY"`
	BaseURL string `envconfig:"ASSETDESK_OPENAI_BASE_URL" default:"https://api.openai.com"`
	Model   string `envconfig:"ASSETDESK_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type AlertsConfig struct {
	OverdueAfter time.Duration `envconfig:"ASSETDESK_ALERTS_OVERDUE_AFTER" default:"168h"`
}

type QRExportConfig struct {
	ImageSize   int `envconfig:"ASSETDESK_QR_IMAGE_SIZE" default:"256"`
	Concurrency int `envconfig:"ASSETDESK_QR_CONCURRENCY" default:"8"`
}
