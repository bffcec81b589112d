// ABOUTME: Embeds HTML templates, static assets, and help docs into the binary using go:embed
// ABOUTME: Provides templateFS, staticFS, and helpDocsFS for loading them at runtime

package webadmin

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed all:static
var staticAssets embed.FS

//go:embed docs/help/*.md
var helpDocsFS embed.FS

// staticFS returns the static assets rooted so that /css/... maps to static/css/...
func staticFS() fs.FS {
	sub, err := fs.Sub(staticAssets, "static")
	if err != nil {
		// static is a compile-time embed; Sub only fails on an invalid name.
		panic(err)
	}
	return sub
}
