package config

const (
	EnvPrefix = "scoutdesk"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "SCOUTDESK_APP_ENV"
	EnvAppPort       = "SCOUTDESK_APP_PORT"
	EnvDBDSN         = "SCOUTDESK_DB_DSN"
	EnvDBHost        = "SCOUTDESK_DB_HOST"
	EnvDBUser        = "SCOUTDESK_DB_USER"
	EnvDBName        = "SCOUTDESK_DB_NAME"
	EnvRedisURL       = "SCOUTDESK_REDIS_URL"
	EnvGCPProjectID   = "SCOUTDESK_GCP_PROJECT_ID"
	EnvStorageURL     = "SCOUTDESK_STORAGE_BASE_URL"
	EnvStorageKey     = "SCOUTDESK_STORAGE_SERVICE_KEY"
	EnvOwnerEventsSub = "SCOUTDESK_PUBSUB_OWNER_EVENTS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
