// Package theme defines visual themes and the registry that holds them.
//
// A theme is a CSS stylesheet plus the branding text shown when a client has
// no logo of its own. The registry is populated once from the catalog and is
// read-only afterwards:
//
//	reg, err := theme.NewRegistry(themes, "default")
//	if err != nil {
//	    return err // default theme missing, duplicate names, ...
//	}
//	blue, ok := reg.Get("blue")
//
// The default theme is guaranteed to be present, which is what lets the
// resolver fall back without ever failing.
package theme
