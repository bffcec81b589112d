// ABOUTME: Handlers for the operator pages: dashboard, users, profile, notifications, theme settings
// ABOUTME: Every page is rendered with the stylesheets and branding resolved for the request's client

package webadmin

import (
	"net/http"

	"github.com/2389/admin-portal/internal/auth"
	"github.com/2389/admin-portal/internal/store"
)

// dashboardActivityLimit is how many audit entries the dashboard shows
const dashboardActivityLimit = 10

// handleDashboard renders the main dashboard
func (a *Admin) handleDashboard(w http.ResponseWriter, r *http.Request) {
	base := a.newPageData(w, r, "Dashboard", "dashboard")

	data := dashboardData{
		pageData:    base,
		ThemeCount:  a.resolver.Themes().Len(),
		ClientCount: a.resolver.Directory().Len(),
		Theme:       a.resolver.ResolveTheme(base.ClientID),
		Persistent:  a.store != nil,
	}

	if a.store != nil {
		entries, err := a.store.ListAuditLog(r.Context(), store.AuditFilter{Limit: dashboardActivityLimit})
		if err != nil {
			a.logger.Error("failed to list audit log", "error", err)
		} else {
			data.Activity = entries
		}
	}

	a.renderPage(w, http.StatusOK, "dashboard", data)
}

// handleUsers renders the user search page
func (a *Admin) handleUsers(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, http.StatusOK, "users", a.newPageData(w, r, "Users", "users"))
}

// handleNewUser renders the new user form
func (a *Admin) handleNewUser(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, http.StatusOK, "new_user", a.newPageData(w, r, "New User", "users"))
}

// handleProfile renders the operator's profile and session details
func (a *Admin) handleProfile(w http.ResponseWriter, r *http.Request) {
	data := profileData{pageData: a.newPageData(w, r, "Profile", "profile")}
	if sess := auth.FromContext(r.Context()); sess != nil {
		data.IssuedAt = sess.IssuedAt
		data.ExpiresAt = sess.ExpiresAt
	}
	a.renderPage(w, http.StatusOK, "profile", data)
}

// handleNotifications renders the notifications page
func (a *Admin) handleNotifications(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, http.StatusOK, "notifications", a.newPageData(w, r, "Notifications", "notifications"))
}

// handleThemeSettings lists the registered themes and the one resolved for the current client
func (a *Admin) handleThemeSettings(w http.ResponseWriter, r *http.Request) {
	base := a.newPageData(w, r, "Theme Settings", "theme-settings")
	current := a.resolver.ResolveTheme(base.ClientID)
	registry := a.resolver.Themes()

	var options []themeOption
	for _, t := range registry.List() {
		options = append(options, themeOption{
			Theme:   t,
			Current: t.Name == current.Name,
			Default: t.Name == registry.DefaultName(),
		})
	}

	a.renderPage(w, http.StatusOK, "theme_settings", themeSettingsData{
		pageData:  base,
		Themes:    options,
		Current:   current,
		ClientIDs: a.resolver.Directory().IDs(),
	})
}

// handleNotFound renders the 404 page for unmatched routes
func (a *Admin) handleNotFound(w http.ResponseWriter, r *http.Request) {
	base := a.newPageData(w, r, "Page Not Found", "")
	if sess, err := a.sessionFromRequest(r); err == nil {
		base.User = sess.Username
	}
	a.renderPage(w, http.StatusNotFound, "404", base)
}

// Recover converts a panic in next into a logged 500 response
func (a *Admin) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				a.logger.Error("panic serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				a.renderPage(w, http.StatusInternalServerError, "500", pageData{
					Title:    "Internal Server Error",
					Branding: a.resolver.ResolveBranding(a.config.DefaultClient),
					CSSFiles: a.resolver.ResolveCSSFiles(a.config.DefaultClient),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
