package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Sequence SequenceConfig
	HTTP     HTTPConfig
	Flags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Sequence.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENDORSCORE_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDORSCORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENDORSCORE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"VENDORSCORE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"VENDORSCORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENDORSCORE_DB_DSN"`
	Driver string `envconfig:"VENDORSCORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENDORSCORE_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDORSCORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDORSCORE_DB_USER"`
	LegacyPassword string `envconfig:"VENDORSCORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDORSCORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDORSCORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDORSCORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDORSCORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDORSCORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDORSCORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDORSCORE_REDIS_URL"`
	Address      string        `envconfig:"VENDORSCORE_REDIS_ADDR"`
	Password     string        `envconfig:"VENDORSCORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDORSCORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDORSCORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDORSCORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDORSCORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDORSCORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDORSCORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// LoadJWT reads only the token settings, for tools that mint tokens without
// touching the database.
func LoadJWT() (JWTConfig, error) {
	var cfg JWTConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return JWTConfig{}, fmt.Errorf("parsing jwt config: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"VENDORSCORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VENDORSCORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VENDORSCORE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// SequenceConfig selects where purchase order numbers and vendor codes are allocated.
type SequenceConfig struct {
	Backend string `envconfig:"VENDORSCORE_SEQUENCE_BACKEND" default:"db"`
}

func (s SequenceConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(s.Backend), SequenceBackendRedis)
}

func (s SequenceConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", SequenceBackendDB:
		return nil
	case SequenceBackendRedis:
		if !redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvSequenceBackend, EnvRedisURL, EnvRedisAddr)
		}
		return nil
	default:
		return fmt.Errorf("invalid %s %q", EnvSequenceBackend, s.Backend)
	}
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"VENDORSCORE_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"VENDORSCORE_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"VENDORSCORE_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"VENDORSCORE_HTTP_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENDORSCORE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
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
