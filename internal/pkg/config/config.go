package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Drivers accepted by the backend selectors.
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
	DriverRedis     = "redis"
	DriverSQLite    = "sqlite"
	DriverS3        = "s3"
	DriverGCS       = "gcs"
	DriverNone      = "none"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	DocStore   DocStoreConfig
	Mongo      MongoConfig
	Firestore  FirestoreConfig
	LocalCache LocalCacheConfig
	Redis      RedisConfig
	SQLite     SQLiteConfig
	Blob       BlobConfig
	Session    SessionConfig
	Login      LoginConfig
}

type DocStoreConfig struct {
	Driver string `env:"DOCSTORE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database    string `env:"MONGO_DB,            default=storefront"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type FirestoreConfig struct {
	ProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
}

type LocalCacheConfig struct {
	Driver string        `env:"LOCAL_CACHE_DRIVER, default=redis"`
	TTL    time.Duration `env:"LOCAL_CACHE_TTL,    default=720h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=storefront-cache.db"`
}

type BlobConfig struct {
	Driver             string `env:"BLOB_DRIVER,          default=none"`
	Bucket             string `env:"BLOB_BUCKET"`
	PublicBaseURL      string `env:"BLOB_PUBLIC_BASE_URL"`
	AWSRegion          string `env:"AWS_REGION"`
	AWSEndpoint        string `env:"AWS_ENDPOINT"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
}

type SessionConfig struct {
	IdleTTL            time.Duration `env:"SESSION_IDLE_TTL,     default=30m"`
	RemoteWriteWorkers int           `env:"REMOTE_WRITE_WORKERS, default=8"`
}

type LoginConfig struct {
	RatePerMinute int `env:"LOGIN_RATE_PER_MINUTE, default=5"`
	Burst         int `env:"LOGIN_BURST,           default=5"`
}

// IsProduction reports whether ENV selects production behaviour (JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set win over .env.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
