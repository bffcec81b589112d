// ABOUTME: Immutable registry of named visual themes for the admin UI
// ABOUTME: Built once at startup; construction fails if the default theme is missing

package theme

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDefaultThemeMissing indicates the configured default theme is not in the theme set.
var ErrDefaultThemeMissing = errors.New("default theme not registered")

// ErrDuplicateTheme indicates two themes share the same name.
var ErrDuplicateTheme = errors.New("duplicate theme name")

// ErrInvalidTheme indicates a theme definition is missing required fields.
var ErrInvalidTheme = errors.New("invalid theme")

// Theme is a named bundle of visual styling.
type Theme struct {
	Name        string `json:"name" toml:"name"`
	DisplayName string `json:"display_name" toml:"display_name"`
	CSSFile     string `json:"css_file" toml:"css_file"`
	LogoText    string `json:"logo_text" toml:"logo_text"`
}

// Registry holds the set of available themes. It is never mutated after
// NewRegistry returns, so it is safe for concurrent reads without locking.
type Registry struct {
	themes      map[string]Theme
	defaultName string
}

// NewRegistry builds a registry from the given themes.
// Returns ErrDefaultThemeMissing if defaultName is not among them.
func NewRegistry(themes []Theme, defaultName string) (*Registry, error) {
	r := &Registry{
		themes:      make(map[string]Theme, len(themes)),
		defaultName: defaultName,
	}

	for _, t := range themes {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidTheme)
		}
		if t.CSSFile == "" {
			return nil, fmt.Errorf("%w: theme %q has no css_file", ErrInvalidTheme, t.Name)
		}
		if _, exists := r.themes[t.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTheme, t.Name)
		}
		r.themes[t.Name] = t
	}

	if _, ok := r.themes[defaultName]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefaultThemeMissing, defaultName)
	}

	return r, nil
}

// Get returns the theme with the given name.
func (r *Registry) Get(name string) (Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}

// List returns every registered theme, sorted by name.
func (r *Registry) List() []Theme {
	out := make([]Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered themes.
func (r *Registry) Len() int {
	return len(r.themes)
}

// DefaultName returns the name of the fallback theme.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Default returns the fallback theme. It always exists.
func (r *Registry) Default() Theme {
	return r.themes[r.defaultName]
}
