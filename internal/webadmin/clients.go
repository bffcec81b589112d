// ABOUTME: Handlers for the client directory: listing, adding, and exporting client configs
// ABOUTME: Added clients go into the live directory and, when enabled, the SQLite store

package webadmin

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/2389/admin-portal/internal/auth"
	"github.com/2389/admin-portal/internal/clients"
	"github.com/2389/admin-portal/internal/store"
)

// clientIDRegex restricts client ids to values safe in URLs and cookies
var clientIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// handleClientsPage lists the client directory
func (a *Admin) handleClientsPage(w http.ResponseWriter, r *http.Request) {
	r, _ = a.ensureCSRFToken(w, r)

	notice := ""
	if added := r.URL.Query().Get("saved"); added != "" {
		notice = "Saved client " + added
	}

	a.renderClientsPage(w, r, http.StatusOK, "", notice, clientForm{})
}

// handleClientAdd adds or replaces a client from the form
func (a *Admin) handleClientAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		r, _ = a.ensureCSRFToken(w, r)
		a.renderClientsPage(w, r, http.StatusBadRequest, "Invalid form data", "", clientForm{})
		return
	}

	if !a.validateCSRF(r) {
		r, _ = a.ensureCSRFToken(w, r)
		a.renderClientsPage(w, r, http.StatusForbidden, "Invalid request, please try again", "", clientForm{})
		return
	}

	form := clientForm{
		ID:           strings.TrimSpace(r.FormValue("id")),
		Name:         strings.TrimSpace(r.FormValue("name")),
		Theme:        strings.TrimSpace(r.FormValue("theme")),
		LogoText:     strings.TrimSpace(r.FormValue("logo_text")),
		LogoImageURL: strings.TrimSpace(r.FormValue("logo_image_url")),
		LogoWidth:    strings.TrimSpace(r.FormValue("logo_width")),
		LogoHeight:   strings.TrimSpace(r.FormValue("logo_height")),
		CustomCSS:    strings.TrimSpace(r.FormValue("custom_css")),
		CustomJS:     strings.TrimSpace(r.FormValue("custom_js")),
	}

	if errMsg := validateClientForm(form); errMsg != "" {
		r, _ = a.ensureCSRFToken(w, r)
		a.renderClientsPage(w, r, http.StatusBadRequest, errMsg, "", form)
		return
	}

	c := form.client()
	_, existed := a.resolver.Client(form.ID)

	if a.store != nil {
		if _, err := a.store.SaveClient(r.Context(), form.ID, c); err != nil {
			a.logger.Error("failed to save client", "client_id", form.ID, "error", err)
			r, _ = a.ensureCSRFToken(w, r)
			a.renderClientsPage(w, r, http.StatusInternalServerError, "Failed to save client", "", form)
			return
		}
	}

	a.resolver.AddClient(form.ID, c)

	action := store.AuditCreateClient
	if existed {
		action = store.AuditUpdateClient
	}
	actor := ""
	if sess := auth.FromContext(r.Context()); sess != nil {
		actor = sess.Username
	}
	a.audit(r.Context(), &store.AuditEntry{
		Actor:      actor,
		Action:     action,
		TargetType: "client",
		TargetID:   form.ID,
		Detail:     map[string]any{"name": c.Name, "theme": c.Theme},
	})

	a.logger.Info("client saved", "client_id", form.ID, "theme", c.Theme, "replaced", existed)
	http.Redirect(w, r, "/clients?saved="+form.ID, http.StatusSeeOther)
}

// handleClientExport returns the client's configuration as JSON
func (a *Admin) handleClientExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, ok := a.resolver.ExportClientConfig(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "client not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		a.logger.Debug("failed to write client export", "client_id", id, "error", err)
	}
}

// renderClientsPage renders the client list and add form
func (a *Admin) renderClientsPage(w http.ResponseWriter, r *http.Request, status int, errMsg, notice string, form clientForm) {
	base := a.newPageData(w, r, "Clients", "clients")

	var rows []clientRow
	for _, entry := range a.resolver.Directory().Entries() {
		resolved := a.resolver.ResolveTheme(entry.ID)
		rows = append(rows, clientRow{
			ID:           entry.ID,
			Name:         entry.Client.Name,
			ThemeName:    entry.Client.Theme,
			ResolvedName: resolved.Name,
			Dangling:     resolved.Name != entry.Client.Theme,
			CSSFiles:     a.resolver.ResolveCSSFiles(entry.ID),
		})
	}

	if form.Theme == "" {
		form.Theme = a.resolver.Themes().DefaultName()
	}

	a.renderPage(w, status, "clients", clientsData{
		pageData: base,
		Clients:  rows,
		Themes:   a.resolver.Themes().List(),
		Error:    errMsg,
		Notice:   notice,
		Form:     form,
	})
}

// validateClientForm returns an error message or empty string if valid
func validateClientForm(f clientForm) string {
	if f.ID == "" {
		return "Client ID is required"
	}
	if !clientIDRegex.MatchString(f.ID) {
		return "Client ID must start with a letter or digit and contain only letters, digits, '-' and '_' (max 64)"
	}
	if f.Name == "" {
		return "Name is required"
	}
	if f.Theme == "" {
		return "Theme is required"
	}
	return ""
}

// client converts the form into a client record; blank optional fields stay unset
func (f clientForm) client() clients.Client {
	return clients.Client{
		Name:  f.Name,
		Theme: f.Theme,
		Logo: clients.Logo{
			Text:     optional(f.LogoText),
			ImageURL: optional(f.LogoImageURL),
			Width:    optional(f.LogoWidth),
			Height:   optional(f.LogoHeight),
		},
		CustomCSS: optional(f.CustomCSS),
		CustomJS:  optional(f.CustomJS),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return clients.String(s)
}

// writeJSONError writes {"error": msg} with the given status
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
