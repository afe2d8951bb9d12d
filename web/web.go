// Package web embeds the static landing page served at the root path.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
