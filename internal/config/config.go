package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Neo4j    Neo4jConfig
	Mongo    MongoConfig
	NATS     NATSConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Security SecurityConfig
	Market   MarketConfig
	Loader   LoaderConfig
	Jobs     JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
	// ContentStore selects the content backend: "graph" or "sql".
	ContentStore string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// Neo4jConfig holds graph database configuration
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI      string
	Database string
}

// NATSConfig holds activity event configuration. An empty URL disables publishing.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// JWTConfig holds token configuration
type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// CookieConfig holds refresh cookie settings
type CookieConfig struct {
	Name   string
	Secret string
	Domain string
	Secure bool
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SecretEncryptionKey string
	ResetTokenExpiry    time.Duration
	VerificationExpiry  time.Duration
}

// MarketConfig holds upstream microservice settings
type MarketConfig struct {
	MarketURL string
	BlogURL   string
	CacheTTL  time.Duration
	Timeout   time.Duration
}

// LoaderConfig holds request loader tuning
type LoaderConfig struct {
	Wait     time.Duration
	MaxBatch int
}

// JobsConfig holds background job settings
type JobsConfig struct {
	SessionSweepInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("SERVER_ENV", "development"),
			LogLevel:     getEnv("LOG_LEVEL", ""),
			ContentStore: getEnv("CONTENT_STORE", "graph"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ideagraph"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
			Username: getEnv("NEO4J_USERNAME", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "neo4j"),
			Database: getEnv("NEO4J_DATABASE", "neo4j"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "ideagraph"),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "ideagraph.activity"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			Issuer:        getEnv("JWT_ISSUER", "ideagraph"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour),
		},
		Cookie: CookieConfig{
			Name:   getEnv("REFRESH_COOKIE_NAME", "device_token"),
			Secret: getEnv("REFRESH_COOKIE_SECRET", "change-this-cookie-secret-in-production"),
			Domain: getEnv("REFRESH_COOKIE_DOMAIN", ""),
			Secure: getEnvAsBool("REFRESH_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			SecretEncryptionKey: getEnv("SECRET_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			ResetTokenExpiry:    getEnvAsDuration("RESET_TOKEN_EXPIRY", time.Hour),
			VerificationExpiry:  getEnvAsDuration("VERIFICATION_EXPIRY", 24*time.Hour),
		},
		Market: MarketConfig{
			MarketURL: getEnv("MARKET_SERVICE_URL", "http://localhost:8081"),
			BlogURL:   getEnv("BLOG_SERVICE_URL", "http://localhost:8082"),
			CacheTTL:  getEnvAsDuration("MARKET_CACHE_TTL", time.Minute),
			Timeout:   getEnvAsDuration("MARKET_TIMEOUT", 10*time.Second),
		},
		Loader: LoaderConfig{
			Wait:     getEnvAsDuration("LOADER_WAIT", 2*time.Millisecond),
			MaxBatch: getEnvAsInt("LOADER_MAX_BATCH", 100),
		},
		Jobs: JobsConfig{
			SessionSweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
