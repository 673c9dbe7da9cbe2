package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msver/internal/structures"
)

type cacheTestLogger struct{}

func (l *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (l *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (l *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, sizeMB int) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled:   enabled,
			Size:      sizeMB,
			TTL:       time.Hour,
			Retention: 24 * time.Hour,
		},
	}
}

func TestNewCacheProvider_Disabled(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 16), &cacheTestLogger{})

	_, ok := c.(*noopCache)
	assert.True(t, ok)

	// The noop never stores anything.
	c.Set("key", []byte("value"))
	_, found := c.Get("key")
	assert.False(t, found)
}

func TestNewCacheProvider_ZeroSizeFallsBackToNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0), &cacheTestLogger{})
	_, ok := c.(*noopCache)
	assert.True(t, ok)
}

func TestCacheProvider_SetGetDel(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})
	_, ok := c.(*CacheProvider)
	require.True(t, ok)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", []byte("value"))
	val, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("value"), val)

	c.Del("key")
	_, found = c.Get("key")
	assert.False(t, found)
}

func TestCacheProvider_OverwriteExisting(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	c.Set("key", []byte("first"))
	c.Set("key", []byte("second"))

	val, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("second"), val)
}

func TestUnsafeStringToBytes(t *testing.T) {
	assert.Nil(t, unsafeStringToBytes(""))
	assert.Equal(t, []byte("abc"), unsafeStringToBytes("abc"))
}
