package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"expoflow/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GIN_MODE", "JWT_SECRET", "CORS_ORIGINS", "SEED_DEMO", "TOKEN_TTL_MINUTES"} {
		t.Setenv(k, "")
	}
	cfg := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	secret, ok := cfg.Secret()
	assert.True(t, ok)
	assert.NotEmpty(t, secret)
}

func TestLoadFromEnvFile(t *testing.T) {
	for _, k := range []string{"PORT", "CORS_ORIGINS", "SEED_DEMO", "JWT_SECRET"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nCORS_ORIGINS=http://a.test, http://b.test\nSEED_DEMO=false\nJWT_SECRET=s3cret\n"), 0o600))

	cfg := config.Load(path)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.SeedDemo)
	secret, ok := cfg.Secret()
	assert.True(t, ok)
	assert.Equal(t, []byte("s3cret"), secret)
}

func TestReleaseModeRequiresSecret(t *testing.T) {
	cfg := &config.Config{GinMode: "release"}
	_, ok := cfg.Secret()
	assert.False(t, ok)
}
