// Package web provides the embedded static assets: stylesheets plus the
// robots.txt and ads.txt files served from the site root.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree, served at /static/.
//
//go:embed all:static
var StaticFS embed.FS
