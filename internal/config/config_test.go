package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("AUTH_ALGORITHM", "HS256")
	t.Setenv("FIXED_RECOVERY_CODE", "1631959404")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("MIN_CLIENT_VERSION", "2.2.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), cfg.Auth.SecretKey)
	assert.Equal(t, AlgorithmHS256, cfg.Auth.Algorithm)
	assert.Equal(t, int64(1631959404), cfg.Auth.RecoveryCode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "2.2.0", cfg.Server.MinClientVersion)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("MIN_CLIENT_VERSION", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "2.1.0", cfg.Server.MinClientVersion)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
}

func TestLoad_MissingRequiredIsFatal(t *testing.T) {
	tests := []string{"AUTH_SECRET_KEY", "AUTH_ALGORITHM", "FIXED_RECOVERY_CODE"}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidAlgorithm(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_ALGORITHM", "none")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NonNumericRecoveryCode(t *testing.T) {
	setRequired(t)
	t.Setenv("FIXED_RECOVERY_CODE", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PasetoKeyLength(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_ALGORITHM", "PASETO_V4")
	t.Setenv("AUTH_SECRET_KEY", "too short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "secret",
		DBName:   "customers",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=svc password=secret dbname=customers sslmode=require",
		cfg.ConnectionString(),
	)
}
