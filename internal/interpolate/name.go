package interpolate

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultName is the template used when none is configured.
const DefaultName = "[hash].[ext]"

// Params carries everything a template may draw from.
type Params struct {
	// ResourcePath is the path of the file being named.
	ResourcePath string
	// Context is the directory [path] is computed relative to.
	Context string
	// Content is hashed for [hash] and [contenthash]. Hash tokens are left
	// untouched when it is nil.
	Content []byte
	// RegExp, when set, is matched against ResourcePath and its capture
	// groups fill the [0], [1], ... tokens.
	RegExp string
}

var (
	hashToken   = regexp.MustCompile(`(?i)\[(?:([^\[:\]]+):)?(?:hash|contenthash)(?::([a-z]+\d*))?(?::(\d+))?\]`)
	extToken    = regexp.MustCompile(`(?i)\[ext\]`)
	nameToken   = regexp.MustCompile(`(?i)\[name\]`)
	pathToken   = regexp.MustCompile(`(?i)\[path\]`)
	folderToken = regexp.MustCompile(`(?i)\[folder\]`)
	queryToken  = regexp.MustCompile(`(?i)\[query\]`)
	parentDirs  = regexp.MustCompile(`\.\.(/)?`)
)

// Name expands template for the given parameters. An empty template falls
// back to DefaultName.
func Name(template string, p Params) (string, error) {
	if template == "" {
		template = DefaultName
	}

	ext, basename, directory, folder := "bin", "file", "", ""
	if p.ResourcePath != "" {
		ext, basename, directory, folder = describe(p.ResourcePath, p.Context)
	}

	url := template
	if p.Content != nil {
		var err error
		url, err = replaceHashes(url, p.Content)
		if err != nil {
			return "", err
		}
	}

	url = extToken.ReplaceAllLiteralString(url, ext)
	url = nameToken.ReplaceAllLiteralString(url, basename)
	url = pathToken.ReplaceAllLiteralString(url, directory)
	url = folderToken.ReplaceAllLiteralString(url, folder)
	url = queryToken.ReplaceAllLiteralString(url, "")

	if p.RegExp != "" && p.ResourcePath != "" {
		re, err := regexp.Compile(p.RegExp)
		if err != nil {
			return "", fmt.Errorf("invalid name regexp %q: %w", p.RegExp, err)
		}
		for i, group := range re.FindStringSubmatch(p.ResourcePath) {
			url = strings.ReplaceAll(url, "["+strconv.Itoa(i)+"]", group)
		}
	}

	return url, nil
}

// describe splits a resource path into the pieces the path tokens expand to.
// The directory is relative to context, uses forward slashes, keeps a
// trailing slash and has every ".." segment rewritten to "_".
func describe(resourcePath, context string) (ext, basename, directory, folder string) {
	ext, basename = "bin", "file"

	base := filepath.Base(resourcePath)
	if e := filepath.Ext(base); e != "" {
		ext = e[1:]
	}
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		basename = name
	}

	dir := ""
	if strings.ContainsRune(resourcePath, filepath.Separator) || strings.Contains(resourcePath, "/") {
		dir = filepath.Dir(resourcePath) + string(filepath.Separator)
	}

	if context != "" {
		rel, err := filepath.Rel(context, dir+"_")
		if err != nil {
			rel = dir + "_"
		}
		directory = parentDirs.ReplaceAllString(filepath.ToSlash(rel), "_$1")
		directory = directory[:len(directory)-1]
	} else {
		directory = parentDirs.ReplaceAllString(filepath.ToSlash(dir), "_$1")
	}

	switch {
	case len(directory) == 1:
		directory = ""
	case len(directory) > 1:
		folder = path.Base(directory)
	}
	return ext, basename, directory, folder
}

func replaceHashes(template string, content []byte) (string, error) {
	matches := hashToken.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(template[last:m[0]])

		hashType := group(template, m, 1)
		digestType := group(template, m, 2)
		maxLength := 0
		if l := group(template, m, 3); l != "" {
			maxLength, _ = strconv.Atoi(l)
		}

		digest, err := Digest(content, hashType, digestType, maxLength)
		if err != nil {
			return "", fmt.Errorf("invalid name token %q: %w", template[m[0]:m[1]], err)
		}
		b.WriteString(digest)
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}

func group(s string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}
