// ABOUTME: Client persistence for configurations added through the admin UI
// ABOUTME: Stores each client as JSON keyed by client id with created/updated timestamps

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2389/admin-portal/internal/clients"
)

// SaveClient inserts or replaces the client stored under id.
// The original created_at is kept when a client is overwritten.
func (s *SQLiteStore) SaveClient(ctx context.Context, id string, c clients.Client) (bool, error) {
	if id == "" {
		return false, ErrInvalidClientID
	}

	data, err := json.Marshal(c)
	if err != nil {
		return false, fmt.Errorf("marshaling client: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE client_id = ?`, id).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("checking client: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO clients (client_id, name, theme, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			name = excluded.name,
			theme = excluded.theme,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, id, c.Name, c.Theme, string(data), now, now); err != nil {
		return false, fmt.Errorf("saving client: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing client: %w", err)
	}

	created := existing == 0
	s.logger.Debug("saved client", "id", id, "theme", c.Theme, "created", created)
	return created, nil
}

// GetClient returns the client stored under id.
// Returns ErrClientNotFound if no such client exists.
func (s *SQLiteStore) GetClient(ctx context.Context, id string) (*ClientRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT client_id, config_json, created_at, updated_at
		FROM clients
		WHERE client_id = ?
	`, id)

	rec, err := scanClientRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListClients returns all stored clients ordered by id
func (s *SQLiteStore) ListClients(ctx context.Context) ([]ClientRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, config_json, created_at, updated_at
		FROM clients
		ORDER BY client_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []ClientRecord{}
	for rows.Next() {
		rec, err := scanClientRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return records, nil
}

// scanClientRecord scans a row into a ClientRecord.
func scanClientRecord(scanner interface{ Scan(dest ...any) error }) (ClientRecord, error) {
	var rec ClientRecord
	var configJSON, createdStr, updatedStr string

	if err := scanner.Scan(&rec.ID, &configJSON, &createdStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning client: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &rec.Client); err != nil {
		return rec, fmt.Errorf("unmarshaling client %s: %w", rec.ID, err)
	}

	var err error
	rec.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return rec, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return rec, fmt.Errorf("parsing updated_at: %w", err)
	}
	return rec, nil
}
