package mcp

import (
	"context"

	"github.com/veldt-labs/prefsync/internal/core/domain"
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

// mockSyncer is a mock implementation of driving.PreferenceSyncer.
type mockSyncer struct {
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
	resets       int
	cancels      int
}

func (m *mockSyncer) Sync(userID string, _ domain.Preferences) {
	m.syncCalls = append(m.syncCalls, userID)
}

func (m *mockSyncer) SyncNow(_ context.Context, userID string, _ domain.Preferences) error {
	m.syncNowCalls = append(m.syncNowCalls, userID)
	return m.syncNowErr
}

func (m *mockSyncer) Fetch(_ context.Context, _ string) (*domain.Preferences, error) {
	return m.fetched, m.fetchErr
}

func (m *mockSyncer) Delete(_ context.Context, userID string) error {
	m.deleteCalls = append(m.deleteCalls, userID)
	return m.deleteErr
}

func (m *mockSyncer) CancelPending() {
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
	m.resets++
	m.metrics = domain.SyncMetrics{}
}

func (m *mockSyncer) Close() error {
	return nil
}
