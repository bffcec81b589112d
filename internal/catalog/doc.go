// Package catalog provides the theming configuration the resolver is built
// from.
//
// The built-in catalog (Default) ships four themes and two sample clients.
// Deployments can replace it with a TOML file named by theming.catalog_path:
//
//	version = 1
//	default_theme = "default"
//
//	[[themes]]
//	name = "default"
//	display_name = "Default Theme"
//	css_file = "/css/themes/default.css"
//	logo_text = "Admin App"
//
//	[clients.client1]
//	name = "Acme Corporation"
//	theme = "blue"
//	custom_css = "/css/clients/client1-custom.css"
//
// Catalogs are validated when loaded and again when built; a catalog whose
// default theme is missing never produces a resolver.
package catalog
