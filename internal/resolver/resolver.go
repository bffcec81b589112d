// ABOUTME: Resolves a client identifier to its effective theme, stylesheets, and branding
// ABOUTME: Never fails: unknown clients and dangling theme references fall back to the default theme

package resolver

import (
	"encoding/json"
	"log/slog"

	"github.com/2389/admin-portal/internal/clients"
	"github.com/2389/admin-portal/internal/theme"
)

// FallbackLogoText is shown when neither the client nor the theme names a logo text.
const FallbackLogoText = "Admin App"

// Branding is the display information a page needs for its header.
type Branding struct {
	Title        string
	LogoText     string
	LogoImageURL string
	LogoWidth    string
	LogoHeight   string
}

// Resolver maps client identifiers onto the theme registry.
// It is safe for concurrent use; the only mutation path is AddClient.
type Resolver struct {
	themes    *theme.Registry
	directory *clients.Directory
	logger    *slog.Logger
}

// New creates a resolver over the given registry and directory.
func New(themes *theme.Registry, directory *clients.Directory, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		themes:    themes,
		directory: directory,
		logger:    logger.With("component", "resolver"),
	}
}

// Themes returns the underlying theme registry.
func (r *Resolver) Themes() *theme.Registry {
	return r.themes
}

// Directory returns the underlying client directory.
func (r *Resolver) Directory() *clients.Directory {
	return r.directory
}

// Client returns the client registered under id.
func (r *Resolver) Client(id string) (clients.Client, bool) {
	return r.directory.Get(id)
}

// AddClient registers or replaces a client.
func (r *Resolver) AddClient(id string, c clients.Client) {
	r.directory.Add(id, c)
	if _, ok := r.themes.Get(c.Theme); !ok {
		r.logger.Warn("client references unknown theme, default will be used",
			"client_id", id,
			"theme", c.Theme,
			"default", r.themes.DefaultName(),
		)
	}
}

// ResolveTheme returns the theme for the client, or the default theme when
// the client is unknown or references a theme that is not registered.
func (r *Resolver) ResolveTheme(clientID string) theme.Theme {
	c, ok := r.directory.Get(clientID)
	if !ok {
		return r.themes.Default()
	}
	return r.themeFor(c)
}

func (r *Resolver) themeFor(c clients.Client) theme.Theme {
	if t, ok := r.themes.Get(c.Theme); ok {
		return t
	}
	return r.themes.Default()
}

// ResolveCSSFiles returns the stylesheets to load, in order: the theme's CSS,
// then the client's custom CSS if it has one.
func (r *Resolver) ResolveCSSFiles(clientID string) []string {
	c, ok := r.directory.Get(clientID)
	if !ok {
		return []string{r.themes.Default().CSSFile}
	}

	files := []string{r.themeFor(c).CSSFile}
	if css := clients.Value(c.CustomCSS); css != "" {
		files = append(files, css)
	}
	return files
}

// ResolveScripts returns the client's custom scripts. Unknown clients have none.
func (r *Resolver) ResolveScripts(clientID string) []string {
	c, ok := r.directory.Get(clientID)
	if !ok {
		return nil
	}
	if js := clients.Value(c.CustomJS); js != "" {
		return []string{js}
	}
	return nil
}

// ResolveBranding returns the header branding for the client. The logo text
// falls back from the client's logo to the theme's logo text.
func (r *Resolver) ResolveBranding(clientID string) Branding {
	c, ok := r.directory.Get(clientID)
	if !ok {
		t := r.themes.Default()
		return Branding{
			Title:    orDefault(t.LogoText, FallbackLogoText),
			LogoText: orDefault(t.LogoText, FallbackLogoText),
		}
	}

	t := r.themeFor(c)
	logoText := orDefault(clients.Value(c.Logo.Text), orDefault(t.LogoText, FallbackLogoText))
	return Branding{
		Title:        orDefault(c.Name, logoText),
		LogoText:     logoText,
		LogoImageURL: clients.Value(c.Logo.ImageURL),
		LogoWidth:    clients.Value(c.Logo.Width),
		LogoHeight:   clients.Value(c.Logo.Height),
	}
}

// ExportClientConfig returns an indented JSON snapshot of the client record.
// The boolean is false when the client is unknown.
func (r *Resolver) ExportClientConfig(clientID string) ([]byte, bool) {
	c, ok := r.directory.Get(clientID)
	if !ok {
		return nil, false
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		// Client holds only strings.
		r.logger.Error("failed to marshal client config", "client_id", clientID, "error", err)
		return nil, false
	}
	return data, true
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
