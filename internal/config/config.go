package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string
	// MinClientVersion is the lowest client version admitted on any route.
	MinClientVersion string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	// SecretKey signs access tokens. PASETO_V4 requires exactly 32 bytes.
	SecretKey []byte
	// Algorithm selects the token backend: "HS256" or "PASETO_V4".
	Algorithm string
	// TokenTTL is the access-token lifetime.
	TokenTTL time.Duration
	// RecoveryCode is the fixed shared secret checked on recover-password.
	// A single code for all customers is a known weakness of the contract
	// this service implements; it is preserved, not fixed, here.
	RecoveryCode int64
}

const (
	AlgorithmHS256    = "HS256"
	AlgorithmPasetoV4 = "PASETO_V4"
)

// Load reads configuration from environment variables. Auth-critical values
// have no defaults: a missing secret, algorithm or recovery code is a startup
// error, never a per-request one.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	secretKey, err := requireEnv("AUTH_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	algorithm, err := requireEnv("AUTH_ALGORITHM")
	if err != nil {
		return nil, err
	}
	if algorithm != AlgorithmHS256 && algorithm != AlgorithmPasetoV4 {
		return nil, fmt.Errorf("AUTH_ALGORITHM must be %s or %s, got %q", AlgorithmHS256, AlgorithmPasetoV4, algorithm)
	}

	recoveryCodeRaw, err := requireEnv("FIXED_RECOVERY_CODE")
	if err != nil {
		return nil, err
	}
	recoveryCode, err := strconv.ParseInt(recoveryCodeRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("FIXED_RECOVERY_CODE must be numeric: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnv("SERVER_PORT", "8080"),
			Env:              getEnv("APP_ENV", "dev"),
			ReadTimeout:      getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:     getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout:  getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:   getSliceEnv("TRUSTED_ORIGINS", nil),
			MinClientVersion: getEnv("MIN_CLIENT_VERSION", "2.1.0"),
		},
		Database: LoadDatabase(),
		Auth: AuthConfig{
			SecretKey:    []byte(secretKey),
			Algorithm:    algorithm,
			TokenTTL:     time.Duration(getIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
			RecoveryCode: recoveryCode,
		},
	}

	if cfg.Auth.Algorithm == AlgorithmPasetoV4 && len(cfg.Auth.SecretKey) != 32 {
		return nil, fmt.Errorf("AUTH_SECRET_KEY must be exactly 32 bytes for %s, got %d", AlgorithmPasetoV4, len(cfg.Auth.SecretKey))
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings. The import job uses this so
// it can run without the auth environment configured.
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "customers"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
