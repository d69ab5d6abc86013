package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BDS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	PublishModeDirect = "direct"
	PublishModeRelay  = "relay"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	S3           S3Config
	Facebook     FacebookConfig
	Publish      PublishConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Publish.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BDS_APP_ENV" required:"true"`
	Port         string `envconfig:"BDS_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"BDS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BDS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BDS_DB_DSN"`
	Driver string `envconfig:"BDS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BDS_DB_HOST"`
	Port     int    `envconfig:"BDS_DB_PORT" default:"5432"`
	User     string `envconfig:"BDS_DB_USER"`
	Password string `envconfig:"BDS_DB_PASSWORD"`
	Name     string `envconfig:"BDS_DB_NAME"`
	SSLMode  string `envconfig:"BDS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BDS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BDS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BDS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BDS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either BDS_DB_DSN or BDS_DB_HOST/BDS_DB_USER/BDS_DB_NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BDS_REDIS_URL"`
	Address      string        `envconfig:"BDS_REDIS_ADDR"`
	Password     string        `envconfig:"BDS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BDS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BDS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BDS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BDS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BDS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BDS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BDS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BDS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BDS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BDS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PublishTopic        string `envconfig:"BDS_PUBSUB_PUBLISH_TOPIC" default:"fb-publish-requests"`
	PublishSubscription string `envconfig:"BDS_PUBSUB_PUBLISH_SUBSCRIPTION" default:"fb-publish-requests-relay"`
}

type S3Config struct {
	Bucket          string        `envconfig:"BDS_S3_BUCKET" default:"bds-quyet"`
	Region          string        `envconfig:"BDS_S3_REGION" default:"ap-southeast-2"`
	AccessKeyID     string        `envconfig:"BDS_AWS_ACCESS_KEY_ID"`
	SecretAccessKey string        `envconfig:"BDS_AWS_SECRET_ACCESS_KEY"`
	PresignTTL      time.Duration `envconfig:"BDS_S3_PRESIGN_TTL" default:"5m"`
}

type FacebookConfig struct {
	AccessToken  string `envconfig:"BDS_FB_ACCESS_TOKEN"`
	GraphVersion string `envconfig:"BDS_FB_GRAPH_VERSION" default:"v20.0"`
	GraphBaseURL string `envconfig:"BDS_FB_GRAPH_BASE_URL" default:"https://graph.facebook.com"`
}

type PublishConfig struct {
	Mode           string        `envconfig:"BDS_PUBLISH_MODE" default:"direct"`
	IdempotencyTTL time.Duration `envconfig:"BDS_PUBLISH_IDEMPOTENCY_TTL" default:"24h"`
}

func (p PublishConfig) validate() error {
	switch p.Mode {
	case PublishModeDirect, PublishModeRelay:
		return nil
	default:
		return fmt.Errorf("publish mode must be %q or %q, got %q", PublishModeDirect, PublishModeRelay, p.Mode)
	}
}

// IsRelay reports whether fan-out is delegated to the external automation worker.
func (p PublishConfig) IsRelay() bool {
	return p.Mode == PublishModeRelay
}
