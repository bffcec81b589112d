// Package config handles configuration loading for admin-portal.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion. Load validates the result and reports the first problem found.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. --config flag
//  2. Path from ADMIN_PORTAL_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/admin-portal/config.yaml
//  4. ~/.config/admin-portal/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  session_secret: "${ADMIN_PORTAL_SESSION_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Server:
//
//	server:
//	  http_addr: "127.0.0.1:8181"
//
// Database (optional; empty disables persistence):
//
//	database:
//	  path: "/var/lib/admin-portal/portal.db"
//
// Operator login and session cookie:
//
//	auth:
//	  username: "ram"
//	  session_secret: "${ADMIN_PORTAL_SESSION_SECRET}"  # >= 32 bytes
//	  session_ttl: "24h"
//	  max_login_failures: 5   # per remote address; 0 disables throttling
//	  login_lockout: "15m"    # must be positive while throttling is on
//
// Theming:
//
//	theming:
//	  catalog_path: "catalog.toml"   # relative to the config file; empty = built-in catalog
//	  default_client: "client1"      # used when a request names no client
//
// Tailscale:
//
//	tailscale:
//	  enabled: false
//	  hostname: "admin-portal"
//	  auth_key: "${TS_AUTHKEY}"
//	  https: true
//	  funnel: false
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
