// Package store provides persistent storage for the admin portal using SQLite.
//
// # Architecture
//
// Store is the interface the web layer depends on. SQLiteStore implements it
// on modernc.org/sqlite; MockStore is an in-memory implementation for tests.
//
// Persistence is optional. When database.path is empty the portal runs
// entirely from its theme catalog and nothing added at runtime survives a
// restart.
//
// # Data Models
//
//   - ClientRecord: a client added through the admin UI, stored as JSON
//     alongside its id, name and theme
//   - AuditEntry: who did what to which client, and when
//
// # Schema
//
// Tables are created on open with CREATE TABLE IF NOT EXISTS. Timestamps are
// stored as RFC3339 text in UTC.
//
//	clients(client_id, name, theme, config_json, created_at, updated_at)
//	audit_log(audit_id, actor, action, target_type, target_id, ts, detail_json)
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/admin-portal/portal.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	created, err := s.SaveClient(ctx, "client3", c)
package store
