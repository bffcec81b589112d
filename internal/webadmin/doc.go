// Package webadmin provides the web-based administration interface.
//
// # Overview
//
// The web admin is a server-rendered operator UI:
//
//   - Login: a single configured operator, session held in a signed cookie
//   - Dashboard, users, profile and notification pages
//   - Clients: list the client directory, add or replace clients, export JSON
//   - Theme Settings: list registered themes and preview them in the browser
//   - Help: embedded markdown pages rendered with goldmark
//
// # Theming
//
// Every page is rendered for one client. The client id comes from the
// ?client= query parameter (remembered in the portal_client cookie), then
// that cookie, then the configured default client. The page head links the
// stylesheets from Resolver.ResolveCSSFiles in order and loads the scripts
// from Resolver.ResolveScripts. The header shows the resolved logo image or,
// without one, the resolved logo text.
//
// # Authentication
//
// POST / checks the submitted username against the configured operator and
// sets an HTTP-only session cookie signed by auth.SessionManager. Protected
// routes redirect to / without a valid session. When Config.MaxLoginFailures
// is set, a remote address that fails that many times within
// Config.LoginLockout gets 429 until the window ends.
//
// # CSRF Protection
//
// All form submissions require CSRF tokens:
//
//	<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
//
// The token is a random value mirrored in the portal_csrf cookie
// (double-submit).
//
// # Templates
//
// Templates use html/template. Each page is templates/base.html plus the page
// file defining "content". Templates, static assets and help docs are embedded
// with go:embed for single-binary deployment.
//
// # Usage
//
//	admin := webadmin.New(res, sessions, st, webadmin.Config{Username: "ram"}, logger)
//	mux := http.NewServeMux()
//	admin.RegisterRoutes(mux)
//	handler := admin.Recover(mux)
//	defer admin.Close()
package webadmin
