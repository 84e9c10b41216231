package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// clearEnv убирает переменные на время теста; t.Setenv вернет прежние значения
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var configKeys = []string{
	"DATABASE_URL", "DATABASE_DRIVER", "SERVER_HOST", "SERVER_PORT", "SERVER_ENV",
	"JWT_SECRET", "COOKIE_SECURE", "STORAGE_TYPE", "UPLOADS_DIR", "CORS_ORIGINS", "CONFIG_PATH",
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", `
server:
  port: 8080
  env: production
database:
  driver: mysql
  url: user:pass@tcp(localhost:3306)/app
jwt:
  secret: from-yaml
upload:
  suivi_extensions: [".pdf"]
`)
	envPath := writeFile(t, dir, ".env", "JWT_SECRET=from-env\nCORS_ORIGINS=http://a.test, http://b.test\n")
	clearEnv(t, configKeys...)

	cfg, err := LoadConfig(cfgPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, []string{".pdf"}, cfg.Upload.SuiviExtensions)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t, configKeys...)
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Cookie.Secure)
	assert.Empty(t, cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.Database.DSN = "postgres://x"
		c.Database.Driver = "postgres"
		c.Server.Env = "production"
		c.JWT.Secret = "s"
		return c
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.JWT.Secret = ""
	assert.Error(t, c.Validate(), "production requires a jwt secret")

	c.Server.Env = "development"
	assert.NoError(t, c.Validate())

	c = base()
	c.Database.Driver = "oracle"
	assert.Error(t, c.Validate())

	c = base()
	c.Database.DSN = ""
	assert.Error(t, c.Validate())
}
