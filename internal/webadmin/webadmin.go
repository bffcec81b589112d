// ABOUTME: Admin web UI package for the per-client theming portal
// ABOUTME: Provides operator login, session cookies, CSRF protection, and route registration

package webadmin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/admin-portal/internal/auth"
	"github.com/2389/admin-portal/internal/resolver"
	"github.com/2389/admin-portal/internal/store"
	"github.com/2389/admin-portal/internal/throttle"
)

const (
	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "portal_csrf"

	// ClientCookieName remembers the client selected with ?client=
	ClientCookieName = "portal_client"

	// clientCookieDuration is how long a client selection is remembered
	clientCookieDuration = 30 * 24 * time.Hour

	// maxThrottledAddrs bounds the number of remote addresses tracked for login throttling
	maxThrottledAddrs = 10000
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const csrfContextKey contextKey = "csrf_token"

// Config holds admin UI configuration
type Config struct {
	// Username is the single operator allowed to log in
	Username string

	// DefaultClient is used when a request names no client
	DefaultClient string

	// BaseURL is the external URL of the portal, shown on the help page
	BaseURL string

	// MaxLoginFailures locks out a remote address after this many failed
	// logins within LoginLockout. Zero disables throttling.
	MaxLoginFailures int
	LoginLockout     time.Duration
}

// Admin handles admin UI routes and authentication
type Admin struct {
	resolver *resolver.Resolver
	sessions *auth.SessionManager
	store    store.Store       // nil when persistence is disabled
	throttle *throttle.Limiter // nil when throttling is disabled
	config   Config
	logger   *slog.Logger
}

// New creates a new Admin handler. st may be nil.
func New(res *resolver.Resolver, sessions *auth.SessionManager, st store.Store, cfg Config, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Admin{
		resolver: res,
		sessions: sessions,
		store:    st,
		config:   cfg,
		logger:   logger.With("component", "admin"),
	}
	if cfg.MaxLoginFailures > 0 && cfg.LoginLockout > 0 {
		a.throttle = throttle.New(cfg.LoginLockout, cfg.MaxLoginFailures, maxThrottledAddrs)
	}
	return a
}

// Close releases background resources held by the admin handler.
func (a *Admin) Close() {
	if a.throttle != nil {
		a.throttle.Close()
	}
}

// RegisterRoutes registers all admin routes on the given mux
func (a *Admin) RegisterRoutes(mux *http.ServeMux) {
	// Public routes (no auth required)
	mux.HandleFunc("GET /{$}", a.handleLoginPage)
	mux.HandleFunc("POST /{$}", a.handleLogin)
	mux.HandleFunc("GET /logout", a.handleLogout)
	mux.HandleFunc("POST /logout", a.handleLogout)

	// Protected pages
	mux.HandleFunc("GET /dashboard", a.requireAuth(a.handleDashboard))
	mux.HandleFunc("GET /users", a.requireAuth(a.handleUsers))
	mux.HandleFunc("GET /users/new-user", a.requireAuth(a.handleNewUser))
	mux.HandleFunc("GET /profile", a.requireAuth(a.handleProfile))
	mux.HandleFunc("GET /notifications", a.requireAuth(a.handleNotifications))
	mux.HandleFunc("GET /theme-settings", a.requireAuth(a.handleThemeSettings))
	mux.HandleFunc("GET /help", a.requireAuth(a.handleHelp))

	// Client management
	mux.HandleFunc("GET /clients", a.requireAuth(a.handleClientsPage))
	mux.HandleFunc("POST /clients", a.requireAuth(a.handleClientAdd))
	mux.HandleFunc("GET /clients/{id}/config", a.requireAuth(a.handleClientExport))

	// Static assets
	static := http.FileServerFS(staticFS())
	mux.Handle("GET /css/", static)
	mux.Handle("GET /js/", static)
	mux.Handle("GET /images/", static)

	// Everything else
	mux.HandleFunc("/", a.handleNotFound)
}

// requireAuth is middleware that requires a valid session cookie
func (a *Admin) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.sessionFromRequest(r)
		if err != nil {
			a.logger.Debug("rejecting unauthenticated request", "path", r.URL.Path, "error", err)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		ctx := auth.WithSession(r.Context(), sess)
		next(w, r.WithContext(ctx))
	}
}

// sessionFromRequest verifies the session cookie on r
func (a *Admin) sessionFromRequest(r *http.Request) (*auth.Session, error) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return nil, auth.ErrInvalidSession
	}
	return a.sessions.Verify(cookie.Value)
}

// getCSRFToken retrieves the CSRF token from the request context
func getCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfContextKey).(string)
	return token
}

// ensureCSRFToken ensures a CSRF token exists and returns it
func (a *Admin) ensureCSRFToken(w http.ResponseWriter, r *http.Request) (*http.Request, string) {
	// Try to get existing token from cookie
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && cookie.Value != "" {
		ctx := context.WithValue(r.Context(), csrfContextKey, cookie.Value)
		return r.WithContext(ctx), cookie.Value
	}

	token, err := generateSecureToken(32)
	if err != nil {
		a.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // Will fail validation, but won't crash
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	ctx := context.WithValue(r.Context(), csrfContextKey, token)
	return r.WithContext(ctx), token
}

// validateCSRF checks the CSRF token from form against cookie
func (a *Admin) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	formToken := r.FormValue("csrf_token")
	if formToken == "" {
		formToken = r.Header.Get("X-CSRF-Token")
	}

	return formToken != "" && formToken == cookie.Value
}

// setSessionCookie issues a session for username and sets the cookie
func (a *Admin) setSessionCookie(w http.ResponseWriter, r *http.Request, username string) error {
	token, err := a.sessions.Issue(username)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.sessions.TTL()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSessionCookie expires the session cookie
func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// clientID returns the client a request is rendered for: the ?client= query
// parameter, then the remembered selection cookie, then the configured default.
// A query selection is remembered for later requests.
func (a *Admin) clientID(w http.ResponseWriter, r *http.Request) string {
	if id := r.URL.Query().Get("client"); id != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookieName,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(clientCookieDuration),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		return id
	}

	if cookie, err := r.Cookie(ClientCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return a.config.DefaultClient
}

// handleLoginPage shows the login form, or skips it when already signed in
func (a *Admin) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := a.sessionFromRequest(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	r, csrfToken := a.ensureCSRFToken(w, r)
	a.renderLoginPage(w, r, http.StatusOK, "", "", csrfToken)
}

// handleLogin processes the login form
func (a *Admin) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		r, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, r, http.StatusBadRequest, "Invalid form data", "", csrfToken)
		return
	}

	if !a.validateCSRF(r) {
		r, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, r, http.StatusForbidden, "Invalid request, please try again", "", csrfToken)
		return
	}

	username := r.FormValue("username")
	addr := remoteHost(r)
	if a.throttle != nil && !a.throttle.Allowed(addr) {
		a.logger.Warn("login throttled", "remote", addr)
		r, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, r, http.StatusTooManyRequests, "Too many failed attempts, try again later", username, csrfToken)
		return
	}

	if err := auth.CheckUsername(a.config.Username, username); err != nil {
		failures := 0
		if a.throttle != nil {
			failures = a.throttle.Fail(addr)
		}
		a.logger.Info("login rejected", "username", username, "remote", addr, "failures", failures)
		a.audit(r.Context(), &store.AuditEntry{
			Actor:      username,
			Action:     store.AuditLoginFailed,
			TargetType: "session",
			TargetID:   username,
		})
		r, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, r, http.StatusOK, "Invalid credentials", username, csrfToken)
		return
	}

	if err := a.setSessionCookie(w, r, a.config.Username); err != nil {
		a.logger.Error("failed to create session", "error", err)
		r, csrfToken := a.ensureCSRFToken(w, r)
		a.renderLoginPage(w, r, http.StatusInternalServerError, "Failed to create session", username, csrfToken)
		return
	}

	if a.throttle != nil {
		a.throttle.Reset(addr)
	}
	a.logger.Info("operator logged in", "username", a.config.Username)
	a.audit(r.Context(), &store.AuditEntry{
		Actor:      a.config.Username,
		Action:     store.AuditLogin,
		TargetType: "session",
		TargetID:   a.config.Username,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout clears the session cookie
func (a *Admin) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, err := a.sessionFromRequest(r); err == nil {
		a.logger.Info("operator logged out", "username", sess.Username)
		a.audit(r.Context(), &store.AuditEntry{
			Actor:      sess.Username,
			Action:     store.AuditLogout,
			TargetType: "session",
			TargetID:   sess.Username,
		})
	}

	clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// remoteHost returns the host part of the request's remote address
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// audit records an entry when persistence is enabled. Failures are logged.
func (a *Admin) audit(ctx context.Context, e *store.AuditEntry) {
	if a.store == nil {
		return
	}
	if err := a.store.AppendAuditLog(ctx, e); err != nil {
		a.logger.Error("failed to append audit log", "action", e.Action, "error", err)
	}
}

// generateSecureToken generates a cryptographically secure random hex token
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
