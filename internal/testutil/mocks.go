package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"msver/internal/providers"
	"msver/internal/storage"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any entry with the given level was recorded.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockFetcher implements providers.PageFetcherInterface from a fixed
// url -> body map. Unknown URLs error.
type MockFetcher struct {
	mu    sync.Mutex
	Pages map[string]string
	Errs  map[string]error
	Calls []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Pages: make(map[string]string), Errs: make(map[string]error)}
}

func (m *MockFetcher) FetchPage(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, url)
	if err, ok := m.Errs[url]; ok {
		return "", err
	}
	if body, ok := m.Pages[url]; ok {
		return body, nil
	}
	return "", errors.New("no fixture for " + url)
}

// MockStore is an in-memory storage.FileStore with injectable failures.
type MockStore struct {
	mu        sync.Mutex
	Files     map[string][]byte
	Modified  map[string]time.Time
	ReadErr   error
	WriteErr  error
	WriteLog  []string
	DeleteLog []string
}

func NewMockStore() *MockStore {
	return &MockStore{
		Files:    make(map[string][]byte),
		Modified: make(map[string]time.Time),
	}
}

func (m *MockStore) Read(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	data, ok := m.Files[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MockStore) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteLog = append(m.WriteLog, name)
	if m.WriteErr != nil {
		return m.WriteErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.Files[name] = buf
	m.Modified[name] = time.Now()
	return nil
}

func (m *MockStore) Exists(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[name]
	return ok, nil
}

func (m *MockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteLog = append(m.DeleteLog, name)
	if _, ok := m.Files[name]; !ok {
		return storage.ErrNotFound
	}
	delete(m.Files, name)
	delete(m.Modified, name)
	return nil
}

func (m *MockStore) LastModified(name string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Modified[name]
	if !ok {
		return time.Time{}, storage.ErrNotFound
	}
	return t, nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockRefresher implements harvest.Refresher with injectable behavior.
type MockRefresher struct {
	mu        sync.Mutex
	NameValue string
	Err       error
	RunCount  int
	Block     chan struct{} // when set, RefreshData waits for ctx or the channel
}

func (m *MockRefresher) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *MockRefresher) RefreshData(ctx context.Context) error {
	m.mu.Lock()
	m.RunCount++
	block := m.Block
	m.mu.Unlock()
	if block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
	}
	return m.Err
}

func (m *MockRefresher) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RunCount
}
