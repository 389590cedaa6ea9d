package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDebugMode(t *testing.T) {
	log := Init("debug", Options{})
	require.NotNil(t, log)
	assert.Same(t, log, L)
	assert.True(t, log.Core().Enabled(-1), "debug level enabled")
}

func TestInitFileMode(t *testing.T) {
	dir := t.TempDir()
	log := Init("release", Options{Dir: dir, Filename: "test.log"})
	require.NotNil(t, log)

	log.Info("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestHelpersSafeWithoutInit(t *testing.T) {
	saved := L
	L = nil
	defer func() { L = saved }()

	assert.NotNil(t, Z())
	assert.NotNil(t, S())
	assert.NotNil(t, SW("key", "value"))
	assert.NotPanics(t, func() { Infow("no global logger") })
}

func TestResolveLogFilePathDefaults(t *testing.T) {
	dir := t.TempDir()
	path, err := resolveLogFilePath(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, defaultLogFilename), path)
}

func TestNormalizePositiveInt(t *testing.T) {
	assert.Equal(t, 5, normalizePositiveInt(5, 10))
	assert.Equal(t, 10, normalizePositiveInt(0, 10))
	assert.Equal(t, 10, normalizePositiveInt(-1, 10))
}
