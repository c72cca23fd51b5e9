package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal serializes a document tree as compact JSON. HTML characters are
// left as-is. encoding/json already writes U+2028 and U+2029 as \u escapes
// even with HTML escaping off; EscapeLineSeparators runs over the result
// anyway so the output stays safe to inline into generated script whatever
// the encoder does.
func Marshal(root any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return EscapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

var (
	lineSeparator      = []byte("\u2028")
	paragraphSeparator = []byte("\u2029")
)

// EscapeLineSeparators replaces raw U+2028 and U+2029 code points with their
// \u escapes. It is a no-op on current encoding/json output and guards
// Marshal's guarantee; it is also usable on JSON produced elsewhere.
func EscapeLineSeparators(b []byte) []byte {
	b = bytes.ReplaceAll(b, lineSeparator, []byte(`\u2028`))
	return bytes.ReplaceAll(b, paragraphSeparator, []byte(`\u2029`))
}
