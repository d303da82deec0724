package cli

import (
	"context"
	"sync"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
)

// mockCache is a mock implementation of driving.PreferenceCache.
type mockCache struct {
	prefs     *domain.Preferences
	saveOK    bool
	saved     []domain.Preferences
	clearCall int
}

func (m *mockCache) Save(_ context.Context, prefs domain.Preferences) bool {
	m.saved = append(m.saved, prefs)
	if m.saveOK {
		m.prefs = &prefs
	}
	return m.saveOK
}

func (m *mockCache) Load(_ context.Context) *domain.Preferences {
	return m.prefs
}

func (m *mockCache) Clear(_ context.Context) {
	m.clearCall++
	m.prefs = nil
}

// mockSyncer is a mock implementation of driving.PreferenceSyncer. The
// mutex matters for the watch tests, where the command loop runs in its
// own goroutine.
type mockSyncer struct {
	mu         sync.Mutex
	fetched    *domain.Preferences
	fetchErr   error
	syncNowErr error
	deleteErr  error
	state      domain.SyncState
	queue      []domain.QueueEntry
	metrics    domain.SyncMetrics

	syncCalls    []string
	syncNowCalls []string
	deleteCalls  []string
	cancels      int
	closed       int
}

func (m *mockSyncer) Sync(userID string, _ domain.Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncCalls = append(m.syncCalls, userID)
}

func (m *mockSyncer) SyncNow(_ context.Context, userID string, _ domain.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncNowCalls = append(m.syncNowCalls, userID)
	return m.syncNowErr
}

func (m *mockSyncer) Fetch(_ context.Context, _ string) (*domain.Preferences, error) {
	return m.fetched, m.fetchErr
}

func (m *mockSyncer) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, userID)
	return m.deleteErr
}

func (m *mockSyncer) CancelPending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
}

func (m *mockSyncer) State(_ string) domain.SyncState {
	if m.state == "" {
		return domain.SyncStateIdle
	}
	return m.state
}

func (m *mockSyncer) Queue() []domain.QueueEntry {
	return m.queue
}

func (m *mockSyncer) Metrics() domain.SyncMetrics {
	return m.metrics
}

func (m *mockSyncer) ResetMetrics() {
	m.metrics = domain.SyncMetrics{}
}

func (m *mockSyncer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// synced returns a snapshot of the user ids passed to Sync.
func (m *mockSyncer) synced() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.syncCalls...)
}

// cancelled returns how many times CancelPending ran.
func (m *mockSyncer) cancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}

// mockConfigStore is a map-backed mock of driven.ConfigStore.
type mockConfigStore struct {
	data   map[string]any
	setErr error
	path   string
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{
		data: make(map[string]any),
		path: "/tmp/prefsync-test/config.toml",
	}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.data[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return m.path }

// setupTestServices wires the given mocks into the command tree and
// returns a cleanup that restores the previous wiring. A nil argument
// leaves the corresponding service unset so missing-service guards can
// be exercised.
func setupTestServices(cache driving.PreferenceCache, syncer driving.PreferenceSyncer, cfg driven.ConfigStore) func() {
	prevCache := cacheService
	prevSync := syncService
	prevCfg := configStore
	prevClock := appClock
	prevFactory := syncerFactory
	prevPath := watchPath
	prevBuild := buildServices

	cacheService = cache
	syncService = syncer
	configStore = cfg
	appClock = nil
	syncerFactory = nil
	watchPath = ""
	buildServices = nil

	return func() {
		cacheService = prevCache
		syncService = prevSync
		configStore = prevCfg
		appClock = prevClock
		syncerFactory = prevFactory
		watchPath = prevPath
		buildServices = prevBuild
	}
}
