package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "General", cfg.Defaults.TeacherSpecialty)
	assert.Equal(t, "0000000000", cfg.Defaults.TeacherPlaceholderPhone)
	assert.Equal(t, "Efectivo", cfg.Defaults.PaymentMethod)
	assert.Equal(t, 10*time.Minute, cfg.Roles.CacheTTL)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, http://admin.local ,")
	t.Setenv("PAYMENT_RETRY_DELAY", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, []string{"http://localhost:5173", "http://admin.local"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Payments.RetryDelay)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
