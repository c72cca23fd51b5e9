package rewriter

import (
	"regexp"
)

var (
	externalURL = regexp.MustCompile(`^https?://`)
	fileURL     = regexp.MustCompile(`\.(gif|png|bin|jpe?g)$`)
	relative    = regexp.MustCompile(`^(\./|\.\./)`)
	quoted      = regexp.MustCompile(`"([\w\W]+)"`)
)

// IsExternalURL reports whether s is an absolute http(s) URL.
func IsExternalURL(s string) bool {
	return externalURL.MatchString(s)
}

// IsFileURL reports whether s ends in one of the binary or image
// extensions the rewriter resolves. The match is case-sensitive.
func IsFileURL(s string) bool {
	return fileURL.MatchString(s)
}

// IsEligible reports whether a leaf value is a local file reference.
func IsEligible(v any) bool {
	s, ok := v.(string)
	return ok && !IsExternalURL(s) && IsFileURL(s)
}

// Normalize prefixes bare paths with "./" so they resolve as relative
// module requests instead of package names.
func Normalize(s string) string {
	if relative.MatchString(s) {
		return s
	}
	return "./" + s
}

// ExtractPath returns the contents of the outermost double-quoted literal in
// a resolved module's source.
func ExtractPath(source string) (string, bool) {
	m := quoted.FindStringSubmatch(source)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
