package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gorm", cfg.Store.Backend)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
server:
  port: 9000
database:
  driver: postgres
  host: db.internal
auth:
  token_ttl: 2h
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("APP_DATABASE_HOST", "override.internal")
	t.Setenv("APP_AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	// untouched keys keep their defaults
	assert.Equal(t, "taskuser", cfg.Database.User)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Server.GinMode = "release"
	assert.ErrorContains(t, cfg.Validate(), "auth.jwt_secret must be changed")

	cfg = Default()
	cfg.Database.Driver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "database.driver")

	cfg = Default()
	cfg.Store.Backend = "mongo"
	cfg.Database.Driver = "oracle"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.TokenTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "auth.token_ttl")
}
