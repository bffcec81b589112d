// ABOUTME: Tests for audit log store operations
// ABOUTME: Covers Append and List with filtering for the audit_log table

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditStore_Append(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entry := &AuditEntry{
		Actor:      "ram",
		Action:     AuditCreateClient,
		TargetType: "client",
		TargetID:   "client3",
		Detail:     map[string]any{"theme": "blue"},
	}

	err := store.AppendAuditLog(ctx, entry)
	require.NoError(t, err)

	// Should have generated ID and timestamp
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())

	entries, err := store.ListAuditLog(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "blue", entries[0].Detail["theme"])
}

func TestAuditStore_List_NoFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, action := range []AuditAction{AuditLogin, AuditCreateClient, AuditLogout} {
		entry := &AuditEntry{
			Actor:      "ram",
			Action:     action,
			TargetType: "client",
			TargetID:   "client3",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.AppendAuditLog(ctx, entry))
	}

	entries, err := store.ListAuditLog(ctx, AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Should be newest first
	assert.Equal(t, AuditLogout, entries[0].Action)
	assert.Equal(t, AuditLogin, entries[2].Action)
}

func TestAuditStore_List_Filters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	seed := []AuditEntry{
		{Actor: "ram", Action: AuditCreateClient, TargetType: "client", TargetID: "a", Timestamp: base},
		{Actor: "ram", Action: AuditUpdateClient, TargetType: "client", TargetID: "a", Timestamp: base.Add(10 * time.Minute)},
		{Actor: "ram", Action: AuditCreateClient, TargetType: "client", TargetID: "b", Timestamp: base.Add(20 * time.Minute)},
	}
	for i := range seed {
		require.NoError(t, store.AppendAuditLog(ctx, &seed[i]))
	}

	action := AuditCreateClient
	byAction, err := store.ListAuditLog(ctx, AuditFilter{Action: &action})
	require.NoError(t, err)
	assert.Len(t, byAction, 2)

	target := "a"
	byTarget, err := store.ListAuditLog(ctx, AuditFilter{TargetID: &target})
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)

	since := base.Add(5 * time.Minute)
	bySince, err := store.ListAuditLog(ctx, AuditFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, bySince, 2)

	limited, err := store.ListAuditLog(ctx, AuditFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b", limited[0].TargetID)
}

func TestAuditStore_RejectsUnknownAction(t *testing.T) {
	store := setupTestStore(t)

	err := store.AppendAuditLog(context.Background(), &AuditEntry{
		Actor:      "ram",
		Action:     AuditAction("drop_tables"),
		TargetType: "client",
		TargetID:   "x",
	})
	assert.Error(t, err)
}

func TestNormalizeAuditLimit(t *testing.T) {
	assert.Equal(t, 100, normalizeAuditLimit(0))
	assert.Equal(t, 100, normalizeAuditLimit(-5))
	assert.Equal(t, 42, normalizeAuditLimit(42))
	assert.Equal(t, 1000, normalizeAuditLimit(5000))
}
