package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service. It is assembled
// once in main and passed to constructors; nothing reads the environment
// after Load returns.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Crypto   CryptoConfig
	Crawler  CrawlerConfig
	CORS     CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and password-hashing parameters. Changing the
// secret invalidates every token issued before the change; there is no
// rotation grace period.
type AuthConfig struct {
	JWTSecret          string
	SigningAlgorithm   string
	AccessTTLMinutes   int
	MajorTTLHours      int
	BcryptCost         int
	SystemUserID       string
}

// CryptoConfig holds the key used to encrypt company portal credentials.
type CryptoConfig struct {
	CredentialsKey string
}

// CrawlerConfig holds the API key the tax crawler presents to read
// decrypted company credentials.
type CrawlerConfig struct {
	APIKey string
}

// CORSConfig lists origins allowed to send the major-token cookie.
type CORSConfig struct {
	AllowOrigins []string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	alg := strings.ToUpper(getEnv("AUTH_JWT_ALGORITHM", "HS256"))
	switch alg {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported AUTH_JWT_ALGORITHM %q", alg)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "attentive-intranet-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("AUTH_JWT_SECRET", "change-me"),
			SigningAlgorithm: alg,
			AccessTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			MajorTTLHours:    getEnvAsInt("AUTH_MAJOR_TOKEN_TTL_HOURS", 7),
			BcryptCost:       getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SystemUserID:     os.Getenv("ATTENTIVE_SYSTEM_USER_ID"),
		},
		Crypto: CryptoConfig{
			CredentialsKey: os.Getenv("CRED_KEY"),
		},
		Crawler: CrawlerConfig{
			APIKey: os.Getenv("CRAWLER_API_KEY"),
		},
		CORS: CORSConfig{
			AllowOrigins: splitCSV(getEnv("ALLOW_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	if a.AccessTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(a.AccessTTLMinutes) * time.Minute
}

// MajorTTL returns the major token lifetime; it is also the hard ceiling of a
// session, counted from login.
func (a AuthConfig) MajorTTL() time.Duration {
	if a.MajorTTLHours <= 0 {
		return 7 * time.Hour
	}
	return time.Duration(a.MajorTTLHours) * time.Hour
}

func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
