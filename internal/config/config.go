package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	CORS     CORSConfig     `yaml:"cors"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Linking  LinkingConfig  `yaml:"linking"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	APIKey          string        `yaml:"api_key"          env:"SERVER_API_KEY"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AuthRateLimit   int           `yaml:"auth_rate_limit"  env:"SERVER_AUTH_RATE_LIMIT"  env-default:"60"`
}

// CORSConfig holds Cross-Origin Resource Sharing settings for the auth API.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id,X-API-Key"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"false"`
}

// RedisConfig holds the session store connection settings.
// An empty Addr disables the Redis session store.
type RedisConfig struct {
	Addr       string        `yaml:"addr"        env:"REDIS_ADDR"`
	Password   string        `yaml:"password"    env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db"          env:"REDIS_DB"          env-default:"0"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"REDIS_SESSION_TTL" env-default:"720h"`
}

// KafkaConfig holds the decision-event producer settings.
// An empty broker list disables the producer.
type KafkaConfig struct {
	BrokersRaw string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic      string `yaml:"topic"   env:"KAFKA_TOPIC"   env-default:"accountlinking.decisions"`
}

// Brokers splits BrokersRaw on commas.
func (k KafkaConfig) Brokers() []string {
	var out []string
	for _, b := range strings.Split(k.BrokersRaw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// AuthConfig holds credential module and OAuth settings.
type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret"           env:"AUTH_JWT_SECRET"           env-required:"true"`
	JWTIssuer          string `yaml:"jwt_issuer"           env:"AUTH_JWT_ISSUER"           env-default:"accountlinking"`
	PasswordHashCost   int    `yaml:"password_hash_cost"   env:"AUTH_PASSWORD_HASH_COST"   env-default:"12"`
	MinPasswordLength  int    `yaml:"min_password_length"  env:"AUTH_MIN_PASSWORD_LENGTH"  env-default:"8"`
	GoogleClientID     string `yaml:"google_client_id"     env:"AUTH_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"google_client_secret" env:"AUTH_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `yaml:"google_redirect_uri"  env:"AUTH_GOOGLE_REDIRECT_URI"`
}

// GoogleEnabled reports whether Google code exchange is configured.
func (c AuthConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// LinkingConfig drives the default linking decision and the engine.
type LinkingConfig struct {
	Enabled             bool   `yaml:"enabled"              env:"LINKING_ENABLED"              env-default:"false"`
	RequireVerification bool   `yaml:"require_verification" env:"LINKING_REQUIRE_VERIFICATION" env-default:"true"`
	PolicyPath          string `yaml:"policy_path"          env:"LINKING_POLICY_PATH"`
	MaxAttempts         int    `yaml:"max_attempts"         env:"LINKING_MAX_ATTEMPTS"         env-default:"3"`
	StoreDriver         string `yaml:"store_driver"         env:"LINKING_STORE_DRIVER"         env-default:"postgres"`
	// StagingRetention is how long an account_to_link entry survives before
	// cmd/cleanup purges it.
	StagingRetention time.Duration `yaml:"staging_retention" env:"LINKING_STAGING_RETENTION" env-default:"720h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
