// Package web serves the search page and JSON API over HTTP.
// Binds to localhost only, no network exposure, no auth needed.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static/index.html
var embedded embed.FS

// staticFS is the static directory served at "/".
var staticFS, _ = fs.Sub(embedded, "static")
