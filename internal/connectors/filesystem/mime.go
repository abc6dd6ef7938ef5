package filesystem

import (
	"mime"
	"path/filepath"
	"strings"
)

// fallbackTypes covers extensions the platform MIME table may not know.
var fallbackTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".htm":      "text/html",
	".html":     "text/html",
	".xhtml":    "application/xhtml+xml",
	".pdf":      "application/pdf",
	".json":     "application/json",
	".xml":      "application/xml",
}

// DetectMIMEType guesses a file's MIME type from its extension.
// Files without an extension are treated as plain text; unknown
// extensions yield application/octet-stream. Parameters such as charset
// are stripped.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := fallbackTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mediaType, _, _ := strings.Cut(t, ";")
		return strings.TrimSpace(mediaType)
	}
	return "application/octet-stream"
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	}) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
