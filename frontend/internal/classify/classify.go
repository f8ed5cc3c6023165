// Package classify maps attachment file names to a MIME type and an embedding sandbox.
package classify

import (
	"strings"

	"github.com/previewer-dev/previewer/shared/domain"
)

// PlainText is the fallback type; it is previewed as decoded text rather than embedded.
const PlainText = "text/plain"

var typeMappings = map[string]string{
	"htm":  "text/html",
	"html": "text/html",

	"pdf": "application/pdf",

	"mp4": "video/mp4",
	"wmv": "video/x-ms-wmv",

	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"ico":  "image/vnd.microsoft.icon",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"svg":  "image/svg+xml",

	"json": "application/json",
}

// Keyed by MIME type. Types not listed are fully restricted.
var typeSandbox = map[string]domain.SandboxPolicy{
	// playback controls need same-origin
	"video/mp4":      domain.NewRestricted("allow-same-origin"),
	"video/x-ms-wmv": domain.NewRestricted("allow-same-origin"),

	// no sandbox flag combination still renders PDFs
	"application/pdf": {Kind: domain.Unrestricted},
}

type Classification struct {
	MimeType string
	Sandbox  domain.SandboxPolicy
}

// Inline reports whether the attachment is previewed as decoded text.
func (c Classification) Inline() bool {
	return c.MimeType == PlainText
}

// Extension returns the lower-cased text after the last dot, or "" when there is none.
func Extension(fileName string) string {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(fileName[i+1:])
}

// MimeType returns the MIME type for a file name, text/plain when unknown.
func MimeType(fileName string) string {
	if mime, ok := typeMappings[Extension(fileName)]; ok {
		return mime
	}
	return PlainText
}

// SandboxFor returns the sandbox policy of a MIME type.
func SandboxFor(mimeType string) domain.SandboxPolicy {
	return typeSandbox[mimeType]
}

// Classify never fails: unknown names fall back to text/plain.
func Classify(fileName string) Classification {
	mime := MimeType(fileName)
	return Classification{MimeType: mime, Sandbox: SandboxFor(mime)}
}
