// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/2389/admin-portal/internal/clients"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	clients map[string]*ClientRecord // keyed by client ID
	audit   []AuditEntry             // append order
	closed  bool
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		clients: make(map[string]*ClientRecord),
	}
}

// SaveClient stores or replaces a client.
func (m *MockStore) SaveClient(ctx context.Context, id string, c clients.Client) (bool, error) {
	if id == "" {
		return false, ErrInvalidClientID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if rec, ok := m.clients[id]; ok {
		rec.Client = c
		rec.UpdatedAt = now
		return false, nil
	}

	m.clients[id] = &ClientRecord{ID: id, Client: c, CreatedAt: now, UpdatedAt: now}
	return true, nil
}

// GetClient returns a copy of the stored client.
func (m *MockStore) GetClient(ctx context.Context, id string) (*ClientRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	cp := *rec
	return &cp, nil
}

// ListClients returns all clients ordered by id.
func (m *MockStore) ListClients(ctx context.Context) ([]ClientRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]ClientRecord, 0, len(m.clients))
	for _, rec := range m.clients {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// AppendAuditLog records an audit entry.
func (m *MockStore) AppendAuditLog(ctx context.Context, e *AuditEntry) error {
	prepareAuditEntry(e)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, *e)
	return nil
}

// ListAuditLog returns matching entries newest first.
func (m *MockStore) ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := normalizeAuditLimit(f.Limit)
	entries := []AuditEntry{}
	for i := len(m.audit) - 1; i >= 0 && len(entries) < limit; i-- {
		e := m.audit[i]
		if f.Since != nil && e.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if f.TargetID != nil && e.TargetID != *f.TargetID {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
