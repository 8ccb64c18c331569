package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("PORT", "9090")
	t.Setenv("SUPERADMIN_EMAIL", "  Root@Transit.Test ")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("STRICT_AUTH", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.True(t, cfg.StrictAuth)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "root@transit.test", cfg.SuperAdmin.Email)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Contains(t, cfg.Database.DSN(), "dbname=transit")
}

func TestLoadRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Env: EnvDevelopment, JWT: JWTConfig{Secret: "s", Expiration: time.Hour}}
	}

	assert.NoError(t, base().Validate())

	prod := base()
	prod.Env = EnvProduction
	assert.ErrorContains(t, prod.Validate(), "at least")

	noTTL := base()
	noTTL.JWT.Expiration = 0
	assert.Error(t, noTTL.Validate())

	seed := base()
	seed.SuperAdmin.Password = "pw"
	assert.ErrorContains(t, seed.Validate(), "SUPERADMIN_EMAIL")
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
