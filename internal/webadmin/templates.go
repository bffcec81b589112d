// ABOUTME: Template rendering functions for admin UI
// ABOUTME: Loads templates from embedded filesystem and renders them with the resolved client theme

package webadmin

import (
	"html/template"
	"net/http"
	"time"

	"github.com/2389/admin-portal/internal/auth"
	"github.com/2389/admin-portal/internal/resolver"
	"github.com/2389/admin-portal/internal/store"
	"github.com/2389/admin-portal/internal/theme"
)

// pageData is shared by every page rendered inside templates/base.html
type pageData struct {
	Title     string
	Active    string
	User      string
	CSRFToken string
	ClientID  string
	Branding  resolver.Branding
	CSSFiles  []string
	Scripts   []string
}

type loginData struct {
	pageData
	Error    string
	Username string
}

type dashboardData struct {
	pageData
	ThemeCount  int
	ClientCount int
	Theme       theme.Theme
	Persistent  bool
	Activity    []store.AuditEntry
}

type profileData struct {
	pageData
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type themeOption struct {
	Theme   theme.Theme
	Current bool
	Default bool
}

type themeSettingsData struct {
	pageData
	Themes    []themeOption
	Current   theme.Theme
	ClientIDs []string
}

type clientRow struct {
	ID           string
	Name         string
	ThemeName    string
	ResolvedName string
	Dangling     bool
	CSSFiles     []string
}

// clientForm holds submitted values so the form can be re-rendered on error
type clientForm struct {
	ID           string
	Name         string
	Theme        string
	LogoText     string
	LogoImageURL string
	LogoWidth    string
	LogoHeight   string
	CustomCSS    string
	CustomJS     string
}

type clientsData struct {
	pageData
	Clients []clientRow
	Themes  []theme.Theme
	Error   string
	Notice  string
	Form    clientForm
}

type helpTopic struct {
	Slug   string
	Title  string
	Active bool
}

type helpData struct {
	pageData
	Topics  []helpTopic
	Content template.HTML
}

// newPageData fills the fields every themed page needs for the request's client
func (a *Admin) newPageData(w http.ResponseWriter, r *http.Request, title, active string) pageData {
	clientID := a.clientID(w, r)
	data := pageData{
		Title:     title,
		Active:    active,
		CSRFToken: getCSRFToken(r),
		ClientID:  clientID,
		Branding:  a.resolver.ResolveBranding(clientID),
		CSSFiles:  a.resolver.ResolveCSSFiles(clientID),
		Scripts:   a.resolver.ResolveScripts(clientID),
	}
	if sess := auth.FromContext(r.Context()); sess != nil {
		data.User = sess.Username
	}
	return data
}

// renderPage executes templates/base.html with the named page template
func (a *Admin) renderPage(w http.ResponseWriter, status int, page string, data any) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page+".html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render page", "page", page, "error", err)
	}
}

// renderLoginPage renders the login page
func (a *Admin) renderLoginPage(w http.ResponseWriter, r *http.Request, status int, errorMsg, username, csrfToken string) {
	base := a.newPageData(w, r, "Login", "")
	base.CSRFToken = csrfToken

	a.renderPage(w, status, "login", loginData{
		pageData: base,
		Error:    errorMsg,
		Username: username,
	})
}
