// ABOUTME: Store interface and data types for admin-portal persistence
// ABOUTME: Defines ClientRecord and the Store interface for runtime-added clients and auditing

package store

import (
	"context"
	"errors"
	"time"

	"github.com/2389/admin-portal/internal/clients"
)

// ErrClientNotFound is returned when a requested client does not exist
var ErrClientNotFound = errors.New("client not found")

// ErrInvalidClientID is returned when saving a client with an empty id
var ErrInvalidClientID = errors.New("client id is required")

// ClientRecord is a persisted client configuration
type ClientRecord struct {
	ID        string
	Client    clients.Client
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store defines the persistence operations used by the admin portal
type Store interface {
	// SaveClient inserts or replaces the client stored under id.
	// It reports whether a new row was created.
	SaveClient(ctx context.Context, id string, c clients.Client) (created bool, err error)

	// GetClient returns the client stored under id, or ErrClientNotFound.
	GetClient(ctx context.Context, id string) (*ClientRecord, error)

	// ListClients returns all stored clients ordered by id.
	ListClients(ctx context.Context) ([]ClientRecord, error)

	// AppendAuditLog records an audit entry, generating its ID and timestamp if unset.
	AppendAuditLog(ctx context.Context, e *AuditEntry) error

	// ListAuditLog returns audit entries matching the filter, newest first.
	ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error)

	// Close releases the underlying resources.
	Close() error
}
