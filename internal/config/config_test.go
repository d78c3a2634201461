package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
}

func TestReadSecret_FileThenEnvFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	writeSecret(t, dir, "jwt_secret", "from-file")

	v, err := ReadSecret("jwt_secret")
	require.NoError(t, err)
	assert.Equal(t, "from-file", v)

	t.Setenv("PASSWORD_PEPPER", "from-env")
	v, err = ReadSecret("password_pepper")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	_, err = ReadSecret("missing_secret")
	assert.Error(t, err)
}

func TestReadSecret_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	writeSecret(t, dir, "db_password", "   ")

	_, err := ReadSecret("db_password")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	writeSecret(t, dir, "db_password", "pg")
	writeSecret(t, dir, "jwt_secret", "jwt")
	writeSecret(t, dir, "password_pepper", "pepper")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "myfit")
	t.Setenv("DB_NAME", "myfit")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig(filepath.Join(dir, "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "jwt", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.SessionTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RememberTokenTTL)
	assert.Equal(t, "rememberToken", cfg.RememberCookieName)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetAllowedOrigins())
	assert.Equal(t, "postgres://myfit:pg@localhost:5432/myfit?sslmode=disable", cfg.DatabaseURL())
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoadConfig_MissingRequiredSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "myfit")
	t.Setenv("DB_NAME", "myfit")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_RejectsNonPositiveRateLimit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	writeSecret(t, dir, "db_password", "pg")
	writeSecret(t, dir, "jwt_secret", "jwt")
	writeSecret(t, dir, "password_pepper", "pepper")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "myfit")
	t.Setenv("DB_NAME", "myfit")

	for _, v := range []string{"0", "-5"} {
		t.Setenv("RATE_LIMIT_REQUESTS", v)
		_, err := LoadConfig(filepath.Join(dir, "absent.env"))
		assert.Error(t, err, "RATE_LIMIT_REQUESTS=%s", v)
	}
}
