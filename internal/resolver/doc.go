// Package resolver turns a client identifier into what a page needs to render:
// the effective theme, the ordered stylesheet list, custom scripts, and
// header branding.
//
// # Fallback
//
// Resolution never fails. An unknown client, or a client whose theme name is
// not in the registry, gets the registry's default theme. The registry
// guarantees the default exists, so there is no error path.
//
// # Stylesheet order
//
// The theme stylesheet always comes first so a client's custom CSS can
// override it:
//
//	r.ResolveCSSFiles("client1")
//	// ["/css/themes/blue.css", "/css/clients/client1-custom.css"]
//	r.ResolveCSSFiles("unknown")
//	// ["/css/themes/default.css"]
//
// # Export
//
// ExportClientConfig serializes a client record as indented JSON for
// debugging and external tooling; unknown IDs report false instead of an
// error.
package resolver
