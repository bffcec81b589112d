// ABOUTME: Versioned theme/client catalog: built-in defaults and TOML file loading
// ABOUTME: Validates at startup so a broken catalog fails fast instead of at request time

package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/2389/admin-portal/internal/clients"
	"github.com/2389/admin-portal/internal/resolver"
	"github.com/2389/admin-portal/internal/theme"
)

// CurrentVersion is the catalog schema version this build understands.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned for catalogs written for another schema version.
var ErrUnsupportedVersion = errors.New("unsupported catalog version")

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the full theming configuration: the theme set, the default
// theme name, and the initial client directory.
type Catalog struct {
	Version      int                       `toml:"version"`
	DefaultTheme string                    `toml:"default_theme"`
	Themes       []theme.Theme             `toml:"themes"`
	Clients      map[string]clients.Client `toml:"clients"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Version:      CurrentVersion,
		DefaultTheme: "default",
		Themes: []theme.Theme{
			{Name: "default", DisplayName: "Default Theme", CSSFile: "/css/themes/default.css", LogoText: "Admin App"},
			{Name: "blue", DisplayName: "Blue Corporate", CSSFile: "/css/themes/blue.css", LogoText: "Blue Corp"},
			{Name: "dark", DisplayName: "Dark Mode", CSSFile: "/css/themes/dark.css", LogoText: "Dark Admin"},
			{Name: "green", DisplayName: "Green Nature", CSSFile: "/css/themes/green.css", LogoText: "Green Nature"},
		},
		Clients: map[string]clients.Client{
			"client1": {
				Name:  "Acme Corporation",
				Theme: "blue",
				Logo: clients.Logo{
					Text:     clients.String("Acme Corp"),
					ImageURL: clients.String("/images/logos/acme-logo.png"),
					Width:    clients.String("120px"),
					Height:   clients.String("40px"),
				},
				CustomCSS: clients.String("/css/clients/client1-custom.css"),
			},
			"client2": {
				Name:  "Green Solutions Inc",
				Theme: "green",
				Logo: clients.Logo{
					Text:     clients.String("Green Solutions"),
					ImageURL: clients.String("/images/logos/green-logo.png"),
					Width:    clients.String("140px"),
					Height:   clients.String("35px"),
				},
				CustomCSS: clients.String("/css/clients/client2-custom.css"),
			},
		},
	}
}

// Load reads a catalog from a TOML file. Unknown keys are rejected so typos
// surface at startup.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes and validates a TOML catalog document.
func Parse(doc string) (*Catalog, error) {
	var c Catalog
	md, err := toml.Decode(doc, &c)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalidCatalog, strings.Join(keys, ", "))
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return &c, nil
}

// Validate checks the catalog for structural problems. Theme-set problems
// (missing default, duplicates) are reported by theme.NewRegistry.
func (c *Catalog) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, c.Version, CurrentVersion)
	}
	if c.DefaultTheme == "" {
		return fmt.Errorf("%w: default_theme is required", ErrInvalidCatalog)
	}
	if len(c.Themes) == 0 {
		return fmt.Errorf("%w: at least one theme is required", ErrInvalidCatalog)
	}

	for _, id := range c.clientIDs() {
		cl := c.Clients[id]
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: client id cannot be empty", ErrInvalidCatalog)
		}
		if cl.Name == "" {
			return fmt.Errorf("%w: client %q has no name", ErrInvalidCatalog, id)
		}
		if cl.Theme == "" {
			return fmt.Errorf("%w: client %q has no theme", ErrInvalidCatalog, id)
		}
	}
	return nil
}

// Build validates the catalog and constructs the resolver it describes.
// Clients referencing unknown themes are allowed but logged; they resolve to
// the default theme.
func (c *Catalog) Build(logger *slog.Logger) (*resolver.Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	reg, err := theme.NewRegistry(c.Themes, c.DefaultTheme)
	if err != nil {
		return nil, fmt.Errorf("building theme registry: %w", err)
	}

	for _, id := range c.clientIDs() {
		if _, ok := reg.Get(c.Clients[id].Theme); !ok {
			logger.Warn("catalog client references unknown theme",
				"client_id", id,
				"theme", c.Clients[id].Theme,
				"default", c.DefaultTheme,
			)
		}
	}

	return resolver.New(reg, clients.NewDirectory(c.Clients), logger), nil
}

// Encode writes the catalog as TOML.
func (c *Catalog) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return nil
}

func (c *Catalog) clientIDs() []string {
	ids := make([]string, 0, len(c.Clients))
	for id := range c.Clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
