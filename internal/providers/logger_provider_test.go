package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msver/internal/structures"
)

func loggerConfig(dir string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "debug",
			Mode:  0644,
			Dir:   dir,
		},
	}
}

func TestNewLogProvider_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof(TypeApp, "started with %d harvesters", 2)
	logger.Errorf(TypeHarvest, "fetch failed: %s", "timeout")

	content, err := os.ReadFile(filepath.Join(dir, "msver.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "started with 2 harvesters")
	assert.Contains(t, string(content), "fetch failed: timeout")
	assert.Contains(t, string(content), `"type":"app"`)
	assert.Contains(t, string(content), `"type":"harvest"`)
}

func TestNewLogProvider_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	conf := loggerConfig(dir)
	conf.Logger.Level = "warn"

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf(TypeApp, "invisible debug line")
	logger.Warnf(TypeApp, "visible warn line")

	content, err := os.ReadFile(filepath.Join(dir, "msver.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "invisible debug line")
	assert.Contains(t, string(content), "visible warn line")
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := loggerConfig(t.TempDir())
	conf.Logger.Level = "chatty"

	_, err := NewLogProvider(conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewLogProvider_MissingDir(t *testing.T) {
	conf := loggerConfig(filepath.Join(t.TempDir(), "does", "not", "exist"))

	_, err := NewLogProvider(conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log dir unavailable")
}

func TestGetLogTypeByRequestType(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("POST"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("GET"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("DELETE"))
}
