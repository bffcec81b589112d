// ABOUTME: Tests for the in-memory MockStore
// ABOUTME: Verifies it behaves like SQLiteStore for the operations the web layer uses

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_Clients(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	created, err := m.SaveClient(ctx, "b", testClient("B", "blue"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.SaveClient(ctx, "b", testClient("B2", "green"))
	require.NoError(t, err)
	assert.False(t, created)

	_, err = m.SaveClient(ctx, "a", testClient("A", "dark"))
	require.NoError(t, err)

	rec, err := m.GetClient(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B2", rec.Client.Name)

	_, err = m.GetClient(ctx, "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)

	all, err := m.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
}

func TestMockStore_Audit(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	require.NoError(t, m.AppendAuditLog(ctx, &AuditEntry{Actor: "ram", Action: AuditLogin, TargetType: "session", TargetID: "ram"}))
	require.NoError(t, m.AppendAuditLog(ctx, &AuditEntry{Actor: "ram", Action: AuditCreateClient, TargetType: "client", TargetID: "c"}))

	entries, err := m.ListAuditLog(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, AuditCreateClient, entries[0].Action)
	assert.NotEmpty(t, entries[0].ID)

	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}
