package transform

import (
	"encoding/json"
	"strings"
)

// RuntimePublicPath is the runtime variable holding the public URL prefix of
// emitted artifacts.
const RuntimePublicPath = "__webpack_public_path__"

// QuoteJS renders s as a JSON string literal, which is also a valid
// JavaScript string literal.
func QuoteJS(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// RuntimeRelative returns an expression that prefixes outputPath with the
// runtime public path.
func RuntimeRelative(outputPath string) string {
	return RuntimePublicPath + " + " + QuoteJS(outputPath)
}

// ExportModule returns the source of a module whose only export is expr.
func ExportModule(expr string) string {
	return "module.exports = " + expr + ";"
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
