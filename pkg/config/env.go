package config

// EnvPrefix is passed to envconfig; every field carries an explicit key so it only
// matters for error messages.
const EnvPrefix = "VENDORSCORE"

const (
	EnvAppEnv          = "VENDORSCORE_APP_ENV"
	EnvPort            = "VENDORSCORE_APP_PORT"
	EnvLogLevel        = "VENDORSCORE_LOG_LEVEL"
	EnvLogFormat       = "VENDORSCORE_LOG_FORMAT"
	EnvDBDSN           = "VENDORSCORE_DB_DSN"
	EnvDBDriver        = "VENDORSCORE_DB_DRIVER"
	EnvDBHost          = "VENDORSCORE_DB_HOST"
	EnvDBUser          = "VENDORSCORE_DB_USER"
	EnvDBName          = "VENDORSCORE_DB_NAME"
	EnvDBPassword      = "VENDORSCORE_DB_PASSWORD"
	EnvRedisURL        = "VENDORSCORE_REDIS_URL"
	EnvRedisAddr       = "VENDORSCORE_REDIS_ADDR"
	EnvJWTSecret       = "VENDORSCORE_JWT_SECRET"
	EnvJWTIssuer       = "VENDORSCORE_JWT_ISSUER"
	EnvJWTExpMins      = "VENDORSCORE_JWT_EXPIRATION_MINUTES"
	EnvSequenceBackend = "VENDORSCORE_SEQUENCE_BACKEND"
	EnvAutoMigrate     = "VENDORSCORE_AUTO_MIGRATE"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	SequenceBackendDB    = "db"
	SequenceBackendRedis = "redis"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
