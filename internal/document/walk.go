package document

import (
	"sort"
	"strconv"
	"strings"
)

// Leaf is a primitive position inside a document tree.
type Leaf struct {
	// Pointer is the RFC 6901 JSON pointer of the leaf, e.g. "/images/0/uri".
	Pointer string
	// Value is the leaf value at the time of the walk.
	Value any

	set func(any)
}

// Set replaces the leaf value inside its parent container.
func (l Leaf) Set(v any) {
	l.set(v)
}

// Walk visits every primitive leaf of root depth-first. Sequences are
// visited by ascending index and mappings by ascending key, so two walks of
// equal trees visit leaves in the same order. A primitive root has no
// parent and is not visited.
func Walk(root any, visit func(Leaf)) {
	walk(root, "", visit)
}

func walk(node any, pointer string, visit func(Leaf)) {
	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			k := k
			child := pointer + "/" + escapePointer(k)
			if isContainer(n[k]) {
				walk(n[k], child, visit)
				continue
			}
			visit(Leaf{Pointer: child, Value: n[k], set: func(v any) { n[k] = v }})
		}
	case []any:
		for i := range n {
			i := i
			child := pointer + "/" + strconv.Itoa(i)
			if isContainer(n[i]) {
				walk(n[i], child, visit)
				continue
			}
			visit(Leaf{Pointer: child, Value: n[i], set: func(v any) { n[i] = v }})
		}
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string {
	return pointerEscaper.Replace(s)
}
