package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, 15*time.Minute, cfg.PresignTTL())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins())
	assert.Empty(t, cfg.Storage.Bucket)

	assert.Error(t, cfg.Validate(), "missing secret must fail validation")
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("STOCKAPI_AUTH_JWTSECRET", "from-env")
	t.Setenv("STOCKAPI_AUTH_TOKENTTLMINUTES", "5")
	t.Setenv("STOCKAPI_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_DotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	content := "STOCKAPI_AUTH_JWTSECRET=from-dotenv\nSTOCKAPI_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Setenv("STOCKAPI_AUTH_JWTSECRET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("STOCKAPI_LOG_LEVEL") })

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
auth:
  jwtsecret: from-file
  algorithm: HS512
storage:
  bucket: exports
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, "HS512", cfg.Auth.Algorithm)
	assert.Equal(t, "exports", cfg.Storage.Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Auth.JWTSecret = "k"
	cfg.Auth.Algorithm = "RS256"
	cfg.Auth.TokenTTLMinutes = 30
	cfg.Database.Path = "x.db"
	assert.Error(t, cfg.Validate())

	cfg.Auth.Algorithm = "hs256"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.AccessKeyID = "minio"
	assert.Error(t, cfg.Validate(), "half a key pair")
	cfg.Storage.SecretAccessKey = "minio-secret"
	assert.NoError(t, cfg.Validate())

	cfg.Auth.TokenTTLMinutes = 0
	assert.Error(t, cfg.Validate())
}
