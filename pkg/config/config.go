package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Storage      StorageConfig
	PubSub       PubSubConfig
	GCP          GCPConfig
	SMS          SMSConfig
	Moderation   ModerationConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCOUTDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"SCOUTDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SCOUTDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCOUTDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SCOUTDESK_DB_DSN"`
	Driver string `envconfig:"SCOUTDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCOUTDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"SCOUTDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCOUTDESK_DB_USER"`
	LegacyPassword string `envconfig:"SCOUTDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCOUTDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCOUTDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCOUTDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCOUTDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCOUTDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCOUTDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCOUTDESK_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SCOUTDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCOUTDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCOUTDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCOUTDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCOUTDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCOUTDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCOUTDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StorageConfig describes the object-storage service holding uploaded media.
type StorageConfig struct {
	BaseURL      string   `envconfig:"SCOUTDESK_STORAGE_BASE_URL" required:"true"`
	ServiceKey   string   `envconfig:"SCOUTDESK_STORAGE_SERVICE_KEY" required:"true"`
	VideoBucket  string   `envconfig:"SCOUTDESK_STORAGE_VIDEO_BUCKET" default:"videos"`
	ImageBuckets []string `envconfig:"SCOUTDESK_STORAGE_IMAGE_BUCKETS" default:"profile-images,additional-images,player-avatar,player-additional-images,playertrainer,playerclub,playeragent,playeracademy,avatars"`
	ListPageSize int      `envconfig:"SCOUTDESK_STORAGE_LIST_PAGE_SIZE" default:"1000"`
}

type PubSubConfig struct {
	OwnerEventsTopic        string `envconfig:"SCOUTDESK_PUBSUB_OWNER_EVENTS_TOPIC" default:"sd-owner-events"`
	OwnerEventsSubscription string `envconfig:"SCOUTDESK_PUBSUB_OWNER_EVENTS_SUBSCRIPTION" required:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SCOUTDESK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SCOUTDESK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SCOUTDESK_GOOGLE_APPLICATION_CREDENTIALS"`
}

// SMSConfig configures the programmatic text-message provider.
type SMSConfig struct {
	BaseURL    string        `envconfig:"SCOUTDESK_SMS_BASE_URL" default:"https://beon.chat/api"`
	Token      string        `envconfig:"SCOUTDESK_SMS_TOKEN"`
	SenderName string        `envconfig:"SCOUTDESK_SMS_SENDER_NAME" default:"scoutdesk"`
	Timeout    time.Duration `envconfig:"SCOUTDESK_SMS_TIMEOUT" default:"10s"`
}

// ModerationConfig tunes the reconciliation and query layers.
type ModerationConfig struct {
	PageSize          int      `envconfig:"SCOUTDESK_MODERATION_PAGE_SIZE" default:"12"`
	OwnerCollections  []string `envconfig:"SCOUTDESK_MODERATION_OWNER_COLLECTIONS" default:"players,students,coaches,academies,clubs,agents,marketers,admins"`
	WatchCollections  []string `envconfig:"SCOUTDESK_MODERATION_WATCH_COLLECTIONS" default:"players,students,coaches,academies"`
	StorageURLMarkers []string `envconfig:"SCOUTDESK_MODERATION_STORAGE_URL_MARKERS" default:"supabase.co"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCOUTDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCOUTDESK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
