// Package templates embeds the previewer's HTML templates.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
