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
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.AllowSignUp)
	assert.False(t, cfg.SerializeWrites)
	assert.Equal(t, "KES", cfg.Currency)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingSecret)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RM_DATA_DIR", "/var/lib/rentalmanager")
	t.Setenv("RM_PORT", "9090")
	t.Setenv("RM_JWT_SECRET", "s3cret")
	t.Setenv("RM_LOCKOUT_WINDOW", "2m")
	t.Setenv("RM_SERIALIZE_WRITES", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/rentalmanager", cfg.DataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.LockoutWindow)
	assert.True(t, cfg.SerializeWrites)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadValue(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RM_PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
