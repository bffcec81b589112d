// Package server wires the admin portal together and runs its HTTP listener.
//
// New loads the theme catalog, opens the optional SQLite store, restores
// clients saved at runtime, and mounts the web admin plus health endpoints:
//
//	GET /health        liveness, "OK"
//	GET /health/ready  "ready (N themes, M clients)"
//	GET /metrics       Prometheus exposition from a per-server registry
//
// Run listens on server.http_addr, or on a tsnet node when tailscale is
// enabled, and shuts down gracefully when its context is canceled.
package server
