package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "", c.Server.BasePath)
	assert.Empty(t, c.Server.TrustedProxies)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, c.JWT.RefreshTTL)
	assert.Equal(t, "sqlite", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  addr: ":9000"
  base_path: "api/"
storage:
  driver: postgres
  dsn: postgres://u:p@localhost/db
jwt:
  access_ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("JWT_REFRESH_TTL", "48h")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", c.Server.Addr)
	assert.Equal(t, "/api", c.Server.BasePath)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, 5*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, 48*time.Hour, c.JWT.RefreshTTL)
	// no tocado por YAML ni env
	assert.Equal(t, 10, c.Rate.Login.Limit)
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	c.Storage.Driver = "mongo"
	c.Cache.Kind = "memcached"
	c.JWT.RefreshTTL = time.Minute
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
	assert.Contains(t, err.Error(), "cache.kind")
	assert.Contains(t, err.Error(), "jwt.refresh_ttl")
}

func TestValidateProdRequiresSeed(t *testing.T) {
	c := Default()
	c.App.Env = "prod"
	assert.ErrorContains(t, c.Validate(), "jwt.signing_seed")

	c.JWT.SigningSeed = "seed"
	assert.NoError(t, c.Validate())
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [::"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	c, err := Load("")
	require.NoError(t, err)
	require.Len(t, c.Server.TrustedProxies, 2)
	assert.Equal(t, "10.0.0.0/8", c.Server.TrustedProxies[0])

	c.Server.TrustedProxies = []string{"10.0.0.0/99"}
	assert.ErrorContains(t, c.Validate(), "server.trusted_proxies")
}
