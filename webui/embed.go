// Package webui exposes the embedded dashboard templates and assets.
// It lives at the module root to embed the sibling "web/" directory.
package webui

import "embed"

// FS holds web/templates (HTML pages) and web/static (stylesheet).
//
//go:embed web
var FS embed.FS
