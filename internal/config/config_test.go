package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no config.yaml in sight

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.App.Mode)
	assert.Equal(t, "store.log", cfg.Log.Filename)
	assert.Equal(t, "./data", cfg.Storage.Dir)
	assert.Equal(t, "knotara_sqlite_db", cfg.Storage.DatabaseSlot)
	assert.Equal(t, "knotara_wishlist", cfg.Storage.WishlistSlot)
	assert.Equal(t, "knotara_auth_user", cfg.Storage.ProfileSlot)
	assert.Equal(t, "analytics_session_id", cfg.Storage.SessionSlot)
	assert.False(t, cfg.Storage.DisablePersist)
	assert.Equal(t, 24, cfg.Auth.ExpireHours)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLen)
	assert.True(t, cfg.Seed.Demo)
	assert.Equal(t, 90, cfg.Analytics.RetentionDays)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_APP_MODE", "release")
	t.Setenv("STORE_AUTH_EXPIRE_HOURS", "48")

	cfg := Load()
	assert.Equal(t, "release", cfg.App.Mode)
	assert.Equal(t, 48, cfg.Auth.ExpireHours)
}

func TestToLoggerOptions(t *testing.T) {
	lc := LogConfig{Dir: "/var/log", Filename: "app.log", MaxSizeMB: 10, MaxBackups: 2, MaxAgeDays: 5, Compress: true}
	opts := lc.ToLoggerOptions()
	assert.Equal(t, "/var/log", opts.Dir)
	assert.Equal(t, "app.log", opts.Filename)
	assert.Equal(t, 10, opts.MaxSizeMB)
	assert.Equal(t, 2, opts.MaxBackups)
	assert.Equal(t, 5, opts.MaxAgeDays)
	assert.True(t, opts.Compress)
}
